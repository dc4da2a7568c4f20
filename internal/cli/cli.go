// Package cli implements the rateconv command line client for the rate service.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rateconverter/internal/config"
	"rateconverter/internal/currency"
	"rateconverter/internal/presenter"
	"rateconverter/internal/provider"
	"rateconverter/internal/service"
)

// ServiceFactory builds the rate service once flags and environment are resolved.
type ServiceFactory func(cfg *config.Config, logger *zap.SugaredLogger) service.RateServiceInterface

// FrankfurterService is the default ServiceFactory.
func FrankfurterService(cfg *config.Config, logger *zap.SugaredLogger) service.RateServiceInterface {
	prov := provider.NewFrankfurterProvider(cfg.Frankfurter.BaseURL, cfg.Frankfurter.Timeout(), nil)
	return service.NewRateService(prov, nil, logger)
}

type runtime struct {
	newService ServiceFactory
	v          *viper.Viper
	svc        service.RateServiceInterface
	logger     *zap.SugaredLogger
}

// NewRootCommand returns the rateconv command tree backed by the Frankfurter API.
func NewRootCommand() *cobra.Command {
	return newRootCommand(FrankfurterService)
}

func newRootCommand(newService ServiceFactory) *cobra.Command {
	rt := &runtime{newService: newService, v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "rateconv",
		Short:         "Currency converter backed by the Frankfurter exchange rates API",
		Version:       "v1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("base-url", provider.DefaultFrankfurterURL, "Frankfurter API base URL")
	flags.Int("timeout", 5, "Rates API request timeout in seconds")
	flags.Bool("debug", false, "Debug flag")
	_ = rt.v.BindPFlag("frankfurter.base_url", flags.Lookup("base-url"))
	_ = rt.v.BindPFlag("frankfurter.timeout_sec", flags.Lookup("timeout"))
	_ = rt.v.BindPFlag("log.development", flags.Lookup("debug"))

	rootCmd.AddCommand(
		currenciesCommand(rt),
		convertCommand(rt),
		rateCommand(rt),
		deltaCommand(rt),
	)
	return rootCmd
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.Load(rt.v)
	if err != nil {
		return err
	}
	rt.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Development)
	rt.svc = rt.newService(cfg, rt.logger)
	return nil
}

// newLogger writes diagnostics to w so they never mix with results on stdout.
func newLogger(w io.Writer, debug bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// resolvePair loads the currency list and resolves both codes against it.
func (rt *runtime) resolvePair(cmd *cobra.Command, from, to string) (source, target currency.Currency, err error) {
	if !currency.IsValidCode(strings.TrimSpace(from)) || !currency.IsValidCode(strings.TrimSpace(to)) {
		return currency.Currency{}, currency.Currency{}, fmt.Errorf("%w: %q, %q", service.ErrInvalidCurrencyCode, from, to)
	}
	if len(rt.svc.Currencies()) == 0 {
		if _, err := rt.svc.ListCurrencies(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), presenter.CurrenciesErrorMessage)
			return currency.Currency{}, currency.Currency{}, err
		}
	}
	return service.LookupPair(rt.svc, from, to)
}

func currenciesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List the currencies supported by the rates API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := rt.svc.ListCurrencies(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), presenter.CurrenciesErrorMessage)
				return err
			}
			for _, c := range list {
				fmt.Fprintln(cmd.OutOrStdout(), presenter.FormatCurrency(c))
			}
			return nil
		},
	}
}

func convertCommand(rt *runtime) *cobra.Command {
	var (
		amount   float64
		from, to string
		date     string
	)

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an amount between two currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := service.ParseDate(date)
			if err != nil {
				return err
			}
			source, target, err := rt.resolvePair(cmd, from, to)
			if err != nil {
				return err
			}
			converted, err := rt.svc.Convert(cmd.Context(), service.ConversionRequest{
				Amount: amount,
				Source: source,
				Target: target,
				Date:   day,
			})
			if err != nil && !service.IsAbsent(err) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), presenter.FormatConversion(amount, source, target, converted, err))
			return err
		},
	}

	convertCmd.Flags().Float64Var(&amount, "amount", 0, "Positive amount to convert")
	convertCmd.Flags().StringVar(&from, "from", "", "Source currency code")
	convertCmd.Flags().StringVar(&to, "to", "", "Target currency code")
	convertCmd.Flags().StringVar(&date, "date", provider.LatestDate, "Date in YYYY-MM-DD format")
	_ = convertCmd.MarkFlagRequired("amount")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
	return convertCmd
}

func rateCommand(rt *runtime) *cobra.Command {
	var from, to, date string

	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Show the rate published on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := service.ParseDate(date)
			if err == nil && day.IsZero() {
				err = fmt.Errorf("%w: %q", service.ErrInvalidDate, date)
			}
			if err != nil {
				return err
			}
			source, target, err := rt.resolvePair(cmd, from, to)
			if err != nil {
				return err
			}
			rate, err := rt.svc.RateOnDate(cmd.Context(), day, source, target)
			fmt.Fprintln(cmd.OutOrStdout(), presenter.FormatRate(service.FormatDate(day), source, target, rate, err))
			return err
		},
	}

	rateCmd.Flags().StringVar(&from, "from", "", "Source currency code")
	rateCmd.Flags().StringVar(&to, "to", "", "Target currency code")
	rateCmd.Flags().StringVar(&date, "date", "", "Date in YYYY-MM-DD format")
	_ = rateCmd.MarkFlagRequired("from")
	_ = rateCmd.MarkFlagRequired("to")
	_ = rateCmd.MarkFlagRequired("date")
	return rateCmd
}

func deltaCommand(rt *runtime) *cobra.Command {
	var from, to string

	deltaCmd := &cobra.Command{
		Use:   "delta",
		Short: "Show the rate change between today and yesterday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, target, err := rt.resolvePair(cmd, from, to)
			if err != nil {
				return err
			}
			delta, err := rt.svc.RateDelta(cmd.Context(), source, target)
			fmt.Fprintln(cmd.OutOrStdout(), presenter.FormatDelta(target, delta, err))
			return err
		},
	}

	deltaCmd.Flags().StringVar(&from, "from", "", "Source currency code")
	deltaCmd.Flags().StringVar(&to, "to", "", "Target currency code")
	_ = deltaCmd.MarkFlagRequired("from")
	_ = deltaCmd.MarkFlagRequired("to")
	return deltaCmd
}

// ExitCode maps a command error to a process exit status.
// Invalid input exits with 2, a missing result with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCurrencyCode),
		errors.Is(err, service.ErrUnknownCurrency),
		errors.Is(err, service.ErrInvalidDate):
		return 2
	default:
		return 1
	}
}
