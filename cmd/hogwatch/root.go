package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/kostyay/hogwatch/internal/capture"
	"github.com/kostyay/hogwatch/internal/collector"
	"github.com/kostyay/hogwatch/internal/config"
	"github.com/kostyay/hogwatch/internal/metrics"
	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/output"
	"github.com/kostyay/hogwatch/internal/refresh"
	"github.com/kostyay/hogwatch/internal/ui"
	"github.com/kostyay/hogwatch/internal/users"
)

// replayDevice labels traffic read from a capture file when no device is set.
const replayDevice = "pcap"

var (
	flagDevice      string
	flagPcap        string
	flagPace        bool
	flagLocal       []string
	flagPeriod      time.Duration
	flagConnTimeout time.Duration
	flagProcTimeout time.Duration
	flagView        string
	flagSort        string
	flagTrace       bool
	flagJSON        bool
	flagLog         string
	flagMetricsAddr string
	flagSave        bool
)

func init() {
	addRootFlags(rootCmd.Flags())
	rootCmd.AddCommand(versionCmd)
}

// addRootFlags binds the root command flags to their package variables.
func addRootFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagDevice, "device", "d", "", "Capture device (default: first active non-loopback interface)")
	f.StringVar(&flagPcap, "pcap", "", "Replay a pcap file instead of capturing live")
	f.BoolVar(&flagPace, "pace", false, "Replay --pcap with its recorded timing")
	f.StringSliceVar(&flagLocal, "local", nil, "Extra addresses to treat as local (useful with --pcap)")
	f.DurationVarP(&flagPeriod, "period", "p", refresh.DefaultPeriod, "Refresh period")
	f.DurationVar(&flagConnTimeout, "conn-timeout", refresh.DefaultConnTimeout, "Drop connections idle this long")
	f.DurationVar(&flagProcTimeout, "proc-timeout", refresh.DefaultProcessTimeout, "Drop processes idle this long")
	f.StringVarP(&flagView, "view", "v", model.ModeKBps.String(), "Initial view: kbps, total-kb, total-b, total-mb")
	f.StringVarP(&flagSort, "sort", "s", model.SortByRecv.String(), "Initial sort: sent or recv")
	f.BoolVarP(&flagTrace, "trace", "t", false, "Print every refresh to stdout instead of drawing the table")
	f.BoolVar(&flagJSON, "json", false, "Trace output as one JSON object per refresh (implies --trace)")
	f.StringVar(&flagLog, "log", "", "Write log messages to this file")
	f.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100")
	f.BoolVar(&flagSave, "save", false, "Save the effective settings as the new defaults")
}

var rootCmd = &cobra.Command{
	Use:   "hogwatch",
	Short: "Per-process network bandwidth monitor",
	Long: `hogwatch groups network traffic by the process that owns the socket and
shows the heaviest users first, refreshed every period.

Keys: s sort by sent, r sort by received, m switch units, q quit.

Examples:
  hogwatch                      # live capture on the default device
  hogwatch -d wlan0 -v total-mb # cumulative megabytes on wlan0
  hogwatch --pcap trace.pcap -t # replay a capture, print every refresh`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if flagSave {
			if err := config.SaveSettings(settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
		}
		return run(settings)
	},
}

// loadSettings reads the settings file and applies flags the user set.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		s.Device = flagDevice
	}
	if flags.Changed("period") {
		s.Period = flagPeriod
	}
	if flags.Changed("conn-timeout") {
		s.ConnTimeout = flagConnTimeout
	}
	if flags.Changed("proc-timeout") {
		s.ProcessTimeout = flagProcTimeout
	}
	if flags.Changed("view") {
		s.ViewMode = flagView
	}
	if flags.Changed("sort") {
		s.SortBy = flagSort
	}
	if flags.Changed("metrics-addr") {
		s.MetricsAddr = flagMetricsAddr
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func run(s *config.Settings) error {
	traceMode := flagTrace || flagJSON || !term.IsTerminal(int(os.Stdout.Fd()))

	closeLog, err := setupLogging(traceMode)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := config.InitTheme(); err != nil {
		log.Printf("Failed to load skin, using default: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Println("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	src, device, local, err := openSource(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	graph := model.NewGraph()
	sampler := capture.NewSampler(graph, collector.NewSocketTable(nil, nil), capture.Options{
		Device:       device,
		Local:        local,
		RefreshEvery: s.Period,
		Pace:         flagPace,
	})
	captureDone := make(chan error, 1)
	go func() {
		captureDone <- sampler.Run(ctx, src)
	}()

	if s.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, s.MetricsAddr); err != nil {
				log.Printf("Metrics server failed: %v", err)
			}
		}()
	}

	engine := refresh.New(s.RefreshConfig())
	state := s.ViewState()
	resolver := users.NewCache(nil)

	if traceMode {
		format := output.FormatText
		if flagJSON {
			format = output.FormatJSON
		}
		tw := output.NewTraceWriter(os.Stdout, format, resolver)
		return runTrace(ctx, graph, engine, state, tw, time.Now, captureDone)
	}

	m := ui.NewModel(ui.Options{
		Graph:        graph,
		Engine:       engine,
		Users:        resolver,
		State:        &state,
		MaxProgWidth: s.ProgNameWidth,
		OnQuit:       cancel,
		Caption:      "hogwatch version " + version,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	captureErr := make(chan error, 1)
	go func() {
		select {
		case err := <-captureDone:
			if err != nil {
				captureErr <- err
				p.Quit()
			}
		case <-ctx.Done():
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	cancel()
	select {
	case err := <-captureErr:
		return err
	default:
		return nil
	}
}

// openSource opens the replay file or the live device, and collects the
// addresses used to tell sent from received traffic.
func openSource(ctx context.Context, s *config.Settings) (capture.Source, string, collector.AddrSet, error) {
	device := s.Device

	var src capture.Source
	var err error
	if flagPcap != "" {
		src, err = capture.OpenFile(flagPcap)
		if device == "" {
			device = replayDevice
		}
	} else {
		if device == "" {
			if device, err = collector.DefaultDevice(ctx, nil); err != nil {
				return nil, "", nil, err
			}
		}
		src, err = capture.OpenLive(device)
	}
	if err != nil {
		return nil, "", nil, err
	}

	localDevice := device
	if flagPcap != "" && s.Device == "" {
		localDevice = ""
	}
	local, err := collector.LocalAddrs(ctx, nil, localDevice)
	if err != nil && !errors.Is(err, collector.ErrNoDevice) {
		_ = src.Close()
		return nil, "", nil, err
	}
	if local == nil {
		local = make(collector.AddrSet)
	}
	for _, a := range flagLocal {
		addr, err := netip.ParseAddr(a)
		if err != nil {
			_ = src.Close()
			return nil, "", nil, fmt.Errorf("invalid --local address %q: %w", a, err)
		}
		local[addr.Unmap()] = struct{}{}
	}
	return src, device, local, nil
}

// setupLogging routes the standard logger. The table owns the terminal, so
// logs are dropped there unless --log names a file.
func setupLogging(traceMode bool) (func(), error) {
	if flagLog != "" {
		f, err := tea.LogToFile(flagLog, "hogwatch")
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return func() { _ = f.Close() }, nil
	}
	if !traceMode {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
