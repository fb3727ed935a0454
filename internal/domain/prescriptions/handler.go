package prescriptions

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/search", searchHandler(svc))

	r.Post("/upload", uploadHandler(svc))
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Get("/", listHandler(svc))
		pr.Post("/", uploadHandler(svc))
	})
}

// Niveles de aviso para la UI (equivalente a los flash messages).
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

const (
	msgNoMatch       = "No matching prescription found."
	msgUploadSuccess = "Prescription uploaded successfully!"
)

type notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type searchResponse struct {
	Results []MatchResult `json:"results"`
	Notices []notice      `json:"notices"`
}

type uploadResponse struct {
	Prescription *Prescription `json:"prescription,omitempty"`
	Notices      []notice      `json:"notices"`
}

func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, searchResponse{
				Results: []MatchResult{},
				Notices: []notice{{Level: NoticeDanger, Message: "Input Error: " + err.Error()}},
			})
			return
		}

		results, err := svc.Search(r.Context(), SearchInput{
			Age:      fields["age"],
			Weight:   fields["weight"],
			Symptoms: fields["symptoms"],
		})
		if err != nil {
			status, n := errorNotice(err)
			writeJSON(w, status, searchResponse{Results: []MatchResult{}, Notices: []notice{n}})
			return
		}

		resp := searchResponse{Results: results, Notices: []notice{}}
		if len(results) == 0 {
			resp.Notices = append(resp.Notices, notice{Level: NoticeWarning, Message: msgNoMatch})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, uploadResponse{
				Notices: []notice{{Level: NoticeDanger, Message: "Input Error: " + err.Error()}},
			})
			return
		}

		p, err := svc.Upload(r.Context(), fields)
		if err != nil {
			status, n := errorNotice(err)
			writeJSON(w, status, uploadResponse{Notices: []notice{n}})
			return
		}

		writeJSON(w, http.StatusCreated, uploadResponse{
			Prescription: &p,
			Notices:      []notice{{Level: NoticeSuccess, Message: msgUploadSuccess}},
		})
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []Prescription{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// errorNotice traduce el tipo de error a status + mensaje para el usuario.
func errorNotice(err error) (int, notice) {
	switch {
	case errors.Is(err, ErrInputFormat), errors.Is(err, ErrValidation):
		return http.StatusBadRequest, notice{Level: NoticeDanger, Message: "Input Error: " + err.Error()}
	default:
		return http.StatusInternalServerError, notice{Level: NoticeDanger, Message: "Unexpected Error: " + err.Error()}
	}
}

// readFields acepta form-encoded (como el formulario HTML) o JSON.
// En JSON los números se pasan a string y symptoms puede venir como array.
func readFields(r *http.Request) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, errors.New("invalid json")
		}
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			s, err := stringifyField(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = s
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form")
	}
	out := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}
	return out, nil
}

func stringifyField(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", errors.New("expected array of strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", errors.New("unsupported value")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
