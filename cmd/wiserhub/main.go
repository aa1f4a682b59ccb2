// Command-line front-end for the hub client: dumps snapshots, discovers
// hubs on the local network, and reports its own version.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/wiserhub/internal/anonymize"
	"github.com/dokzlo13/wiserhub/internal/config"
	"github.com/dokzlo13/wiserhub/internal/discovery"
	"github.com/dokzlo13/wiserhub/internal/rest"
)

const version = "1.0.0"

// Exit codes per error class, so scripts can tell an auth problem from an
// unreachable hub.
const (
	exitConnectivity = 2
	exitAuth         = 3
	exitRest         = 4
)

var (
	configPath string
	anonFlag   bool

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "wiserhub",
		Short: "Wiser heating hub client",
		Long:  "Command-line client for a Wiser heating hub's local API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				if !os.IsNotExist(err) {
					return err
				}
				loaded = config.Default()
			}
			cfg = loaded
			setupLogging(cfg.Log.GetLevel(), cfg.Log.Colors)
			return nil
		},
	}

	outputCmd = &cobra.Command{
		Use:   "output {domain|network|schedule|all}",
		Short: "Dump hub snapshots to ~/wiser_data",
		Args:  cobra.ExactArgs(1),
		RunE:  runOutput,
	}

	discoverCmd = &cobra.Command{
		Use:   "discover",
		Short: "Find hubs on the local network via mDNS",
		RunE:  runDiscover,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "wiserhub.yaml", "Path to configuration file")
	outputCmd.Flags().BoolVar(&anonFlag, "anonymize", false, "Scrub identifying fields from the dump")

	rootCmd.AddCommand(outputCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto distinct exit statuses.
func exitCode(err error) int {
	var backend *rest.BackendError
	switch {
	case errors.Is(err, rest.ErrAuthentication):
		return exitAuth
	case errors.Is(err, rest.ErrConnectivity):
		return exitConnectivity
	case errors.Is(err, rest.ErrNotFound), errors.As(err, &backend):
		return exitRest
	}
	return 1
}

func setupLogging(level string, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colors,
	})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func runOutput(cmd *cobra.Command, args []string) error {
	var kinds []rest.SnapshotKind
	switch args[0] {
	case "domain":
		kinds = []rest.SnapshotKind{rest.SnapshotDomain}
	case "network":
		kinds = []rest.SnapshotKind{rest.SnapshotNetwork}
	case "schedule":
		kinds = []rest.SnapshotKind{rest.SnapshotSchedules}
	case "all":
		kinds = []rest.SnapshotKind{rest.SnapshotDomain, rest.SnapshotNetwork, rest.SnapshotSchedules}
	default:
		return fmt.Errorf("unknown snapshot kind %q (want domain, network, schedule or all)", args[0])
	}

	host := cfg.Hub.Host
	if host == "" {
		hubs, err := discovery.Discover(cmd.Context(),
			cfg.Discovery.MinSearchTime.Duration(), cfg.Discovery.MaxSearchTime.Duration())
		if err != nil {
			return err
		}
		if len(hubs) == 0 {
			return fmt.Errorf("%w: no hub found on the local network", rest.ErrConnectivity)
		}
		host = hubs[0].IP
		log.Info().Str("host", host).Msg("Discovered hub")
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0o755); err != nil {
		return err
	}

	client := rest.NewClient(host, cfg.Hub.Secret, cfg.Hub.Timeout.Duration())
	scrubber := anonymize.New()
	for _, kind := range kinds {
		payload, err := client.GetSnapshotRaw(cmd.Context(), kind)
		if err != nil {
			return err
		}
		if anonFlag || cfg.Output.Anonymize {
			payload, err = scrub(scrubber, payload)
			if err != nil {
				return err
			}
		}
		path := filepath.Join(cfg.Output.Directory, fmt.Sprintf("%s.json", snapshotFileName(kind)))
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Wrote snapshot")
	}
	return nil
}

// snapshotFileName is the output file stem for a snapshot kind. It follows
// the CLI argument spelling, not the hub's request path.
func snapshotFileName(kind rest.SnapshotKind) string {
	if kind == rest.SnapshotSchedules {
		return "schedule"
	}
	return string(kind)
}

func scrub(scrubber *anonymize.Anonymizer, payload []byte) ([]byte, error) {
	var tree interface{}
	if err := json.Unmarshal(payload, &tree); err != nil {
		return nil, err
	}
	return json.MarshalIndent(scrubber.Scrub(tree), "", "  ")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	hubs, err := discovery.Discover(cmd.Context(),
		cfg.Discovery.MinSearchTime.Duration(), cfg.Discovery.MaxSearchTime.Duration())
	if err != nil {
		return err
	}
	if len(hubs) == 0 {
		fmt.Println("no hubs found")
		return nil
	}
	for _, h := range hubs {
		fmt.Printf("%s\t%s\t%s\n", h.IP, h.Hostname, h.Name)
	}
	return nil
}
