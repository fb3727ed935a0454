package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"prescription-matcher/internal/domain/prescriptions"
	"prescription-matcher/internal/platform/config"
	"prescription-matcher/internal/platform/httpserver"
	"prescription-matcher/internal/platform/logger"
	"prescription-matcher/internal/router"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// app guarda lo que arma PersistentPreRunE para los subcomandos.
type app struct {
	cfgFile string
	output  string

	cfg   config.Config
	log   logger.Logger
	store prescriptions.Store
	svc   *prescriptions.Service
	close func() error
}

func newRootCmd() *cobra.Command {
	a := &app{close: func() error { return nil }}

	root := &cobra.Command{
		Use:   "rx",
		Short: "Prescription matcher",
		Long: `rx guarda prescripciones (medicamento, dosis, rangos de edad/peso, síntomas)
y busca las que aplican a un paciente dado.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./rx.yaml)")
	pf.StringVarP(&a.output, "output", "o", "text", "Output format (text|json|yaml)")
	pf.String("data-file", "", "Path to the JSON container")
	pf.String("db-dsn", "", "Postgres DSN (uses postgres storage)")
	pf.String("storage", "", "Storage backend (file|memory|postgres)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newInitCmd(a),
		newSearchCmd(a),
		newUploadCmd(a),
		newListCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Stderr: true,
	})

	store, closer, err := router.OpenStore(cmd.Context(), cfg, a.log)
	if err != nil {
		return err
	}
	a.store = store
	a.close = closer
	a.svc = prescriptions.NewService(store, a.log)
	return nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty container if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Init(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "container ready (%s)\n", describeStorage(a.cfg))
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var in prescriptions.SearchInput

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find prescriptions for a patient",
		Example: `  rx search --age 30 --weight 70 --symptoms "headache, fever"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := a.svc.Search(cmd.Context(), in)
			if err != nil {
				return userError(err)
			}
			if len(results) == 0 && a.output == "text" {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching prescription found.")
				return nil
			}
			return render(cmd.OutOrStdout(), a.output, results, func(w io.Writer) {
				writeTable(w, toRows(results))
			})
		},
	}

	cmd.Flags().StringVar(&in.Age, "age", "", "Patient age (integer)")
	cmd.Flags().StringVar(&in.Weight, "weight", "", "Patient weight")
	cmd.Flags().StringVar(&in.Symptoms, "symptoms", "", "Comma-separated symptoms")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("symptoms")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	fields := map[string]*string{}
	keys := []string{
		prescriptions.FieldMedicine,
		prescriptions.FieldDosage,
		prescriptions.FieldAgeMin,
		prescriptions.FieldAgeMax,
		prescriptions.FieldWeightMin,
		prescriptions.FieldWeightMax,
		prescriptions.FieldSymptoms,
	}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Validate and store a new prescription",
		Example: `  rx upload --medicine Paracetamol --dosage 500mg --age-min 5 --age-max 60 \
    --weight-min 15 --weight-max 90 --symptoms "Fever, Headache"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := make(map[string]string, len(fields))
			for k, v := range fields {
				in[k] = *v
			}

			p, err := a.svc.Upload(cmd.Context(), in)
			if err != nil {
				return userError(err)
			}
			return render(cmd.OutOrStdout(), a.output, p, func(w io.Writer) {
				fmt.Fprintln(w, "Prescription uploaded successfully!")
			})
		},
	}

	for _, k := range keys {
		fields[k] = cmd.Flags().String(strings.ReplaceAll(k, "_", "-"), "", strings.ReplaceAll(k, "_", " "))
	}
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored prescription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.svc.List(cmd.Context())
			if err != nil {
				return userError(err)
			}
			return render(cmd.OutOrStdout(), a.output, items, func(w io.Writer) {
				rows := make([]prescriptions.MatchResult, 0, len(items))
				for _, p := range items {
					rows = append(rows, prescriptions.MatchResult(p))
				}
				writeTable(w, toRows(rows))
			})
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := a.cfg.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			r := router.NewRouter(router.Options{Store: a.store, Logger: a.log})
			return httpserver.Run(cmd.Context(), addr, r, a.log)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	return cmd
}

// userError agrega el prefijo que ve el usuario según el tipo de error.
func userError(err error) error {
	switch {
	case errors.Is(err, prescriptions.ErrInputFormat), errors.Is(err, prescriptions.ErrValidation):
		return fmt.Errorf("Input Error: %w", err)
	default:
		return fmt.Errorf("Unexpected Error: %w", err)
	}
}

func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text|json|yaml)", format)
	}
}

func toRows(results []prescriptions.MatchResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Medicine,
			r.Dosage,
			fmt.Sprintf("%d-%d", r.AgeMin, r.AgeMax),
			fmt.Sprintf("%g-%g", r.WeightMin, r.WeightMax),
			strings.Join(r.Symptoms, ", "),
		})
	}
	return rows
}

func writeTable(w io.Writer, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEDICINE\tDOSAGE\tAGE\tWEIGHT\tSYMPTOMS")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func describeStorage(cfg config.Config) string {
	switch cfg.Storage {
	case config.StorageFile:
		return "file " + cfg.DataFile
	default:
		return string(cfg.Storage)
	}
}
