package commands

import (
	"io"

	"github.com/de-tools/posture-atlas/pkg/models/domain"
	"github.com/de-tools/posture-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/posture-atlas/pkg/services/collect"
	"github.com/de-tools/posture-atlas/pkg/services/config"
	"github.com/de-tools/posture-atlas/pkg/services/inspect"
	"github.com/de-tools/posture-atlas/pkg/store/client"
	"github.com/de-tools/posture-atlas/pkg/store/results"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type InspectCmd struct {
	output io.Writer

	customerName    string
	url             string
	accessKey       string
	secretKey       string
	cloudAccount    string
	timeRangeAmount int
	timeRangeUnit   string
	mode            string
	supportAPI      bool
	insecure        bool
	debug           bool
	profilePath     string
}

func NewInspectCmd(output io.Writer) *cobra.Command {
	ic := &InspectCmd{output: output}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Collect tenant data and build a posture report",
		RunE:  ic.run,
	}

	// Define flags
	cmd.Flags().StringVarP(&ic.customerName, "customer-name", "c", "", "Customer name")
	cmd.Flags().StringVarP(&ic.url, "url", "u", "", "Tenant API URL")
	cmd.Flags().StringVarP(&ic.accessKey, "access-key", "a", "", "API access key")
	cmd.Flags().StringVarP(&ic.secretKey, "secret-key", "s", "", "API secret key")
	cmd.Flags().StringVar(&ic.cloudAccount, "cloud-account", "", "Cloud account ID to limit the alert query")
	cmd.Flags().IntVar(&ic.timeRangeAmount, "time-range-amount", 1, "Time range amount to limit the alert query (1-3)")
	cmd.Flags().StringVar(&ic.timeRangeUnit, "time-range-unit", "week", "Time range unit (day, week, month, year)")
	cmd.Flags().StringVarP(&ic.mode, "mode", "m", "auto", "Mode: just collect data, just process collected data, or both (collect, process, auto)")
	cmd.Flags().BoolVar(&ic.supportAPI, "support-api", false, "Use the support API to collect data without a tenant API key")
	cmd.Flags().BoolVar(&ic.insecure, "insecure", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVarP(&ic.debug, "debug", "d", false, "Enable debug output")
	cmd.Flags().StringVar(&ic.profilePath, "profile", "", "Path to a YAML profile carrying url, access_key and secret_key")

	// Mark required flags
	_ = cmd.MarkFlagRequired("customer-name")

	return cmd
}

func (ic *InspectCmd) run(cmd *cobra.Command, _ []string) error {
	// A missing .env file is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if ic.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: ic.output}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	creds, err := config.Resolve(config.Credentials{
		Endpoint:  ic.url,
		AccessKey: ic.accessKey,
		SecretKey: ic.secretKey,
	}, ic.profilePath)
	if err != nil {
		return err
	}

	settings := domain.Settings{
		CustomerName: ic.customerName,
		Endpoint:     creds.Endpoint,
		AccessKey:    creds.AccessKey,
		SecretKey:    creds.SecretKey,
		CloudAccount: ic.cloudAccount,
		TimeRange:    domain.TimeRange{Amount: ic.timeRangeAmount, Unit: ic.timeRangeUnit},
		Mode:         domain.Mode(ic.mode),
		SupportAPI:   ic.supportAPI,
		Insecure:     ic.insecure,
		Debug:        ic.debug,
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	store := results.NewStore(".", settings.CustomerName)

	if settings.Mode != domain.ModeProcess {
		logger.Info().Msg("collecting data")
		apiClient := client.New(client.Config{
			Endpoint:     settings.Endpoint,
			AccessKey:    settings.AccessKey,
			SecretKey:    settings.SecretKey,
			CustomerName: settings.CustomerName,
			CloudAccount: settings.CloudAccount,
			TimeRange:    settings.TimeRange,
			SupportAPI:   settings.SupportAPI,
			Insecure:     settings.Insecure,
		})
		collector := collect.New(apiClient, store, settings)
		if err := collector.Run(ctx); err != nil {
			return err
		}
		if settings.Mode == domain.ModeCollect {
			logger.Info().Msgf(
				"run 'posture-atlas inspect --customer-name %q --mode process' to process the collected data and save a spreadsheet",
				settings.CustomerName,
			)
			return nil
		}
	}

	logger.Info().Msg("processing data")
	dataset, err := inspect.LoadDataset(store)
	if err != nil {
		return err
	}
	res := inspect.Run(dataset)
	workbook := inspect.BuildWorkbook(dataset, res, settings.TimeRange.Label())

	if ic.debug {
		if err := export.NewConsole(ic.output).Handle(workbook); err != nil {
			return err
		}
	}

	if err := export.NewReporter(store.WorkbookPath()).Handle(workbook); err != nil {
		return err
	}
	logger.Info().Msgf("results saved as: %s", store.WorkbookPath())
	return nil
}
