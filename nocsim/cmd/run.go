package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/monitoring"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/tracing"
	"github.com/sarchlab/nocsim/trafficmanager"
)

var runCmd = &cobra.Command{
	Use:   "run [config.yaml] [key=value ...]",
	Short: "Run synthetic traffic through the network.",
	Long: "`run` simulates every trial described by the configuration and " +
		"prints the overall statistics of the measured classes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptionsFromFlags(cmd)

		cfg, err := loadConfig(args, opts.envFile)
		if err != nil {
			return err
		}

		return runSimulation(cfg, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Int64("seed", -1, "Random seed, overrides the seed key when set")
	f.Bool("stream", false, "Use named L'Ecuyer streams as random source")
	f.String("env-file", ".env", "Read NOCSIM_* overrides from this file")
	f.String("db", "",
		"Record results to a SQLite file or a clickhouse:// URL")
	f.String("csv", "", "Write the overall statistics to a CSV file")
	f.String("stats-out", "",
		"Write the statistics of the last trial as MATLAB assignments")
	f.String("watch", "", "Write the trace of watched packets to a file")
	f.Bool("monitor", false, "Serve the progress of the simulation over HTTP")
	f.Int("monitor-port", 0, "Port of the monitoring server")
	f.Bool("open-browser", false, "Open the monitoring page in a browser")
}

type runOptions struct {
	seed        int64
	stream      bool
	envFile     string
	db          string
	csv         string
	statsOut    string
	watch       string
	monitor     bool
	monitorPort int
	openBrowser bool
}

func runOptionsFromFlags(cmd *cobra.Command) runOptions {
	f := cmd.Flags()

	opts := runOptions{}
	opts.seed, _ = f.GetInt64("seed")
	opts.stream, _ = f.GetBool("stream")
	opts.envFile, _ = f.GetString("env-file")
	opts.db, _ = f.GetString("db")
	opts.csv, _ = f.GetString("csv")
	opts.statsOut, _ = f.GetString("stats-out")
	opts.watch, _ = f.GetString("watch")
	opts.monitor, _ = f.GetBool("monitor")
	opts.monitorPort, _ = f.GetInt("monitor-port")
	opts.openBrowser, _ = f.GetBool("open-browser")

	return opts
}

// simulation holds everything a run is made of.
type simulation struct {
	net      *network.IdealNetwork
	manager  *trafficmanager.Manager
	workload *trafficmanager.SyntheticWorkload
	counter  *tracing.FlitCounter
}

func buildSimulation(
	cfg *config.Configuration,
	rng sim.RandomSource,
) (*simulation, error) {
	s := &simulation{}

	s.net = network.MakeBuilder().
		WithConfig(cfg).
		Build("Network")

	s.manager = trafficmanager.MakeBuilder().
		WithConfig(cfg).
		WithNetwork(s.net).
		Build("TrafficManager")

	w, err := trafficmanager.NewSyntheticWorkload(cfg, s.manager, rng)
	if err != nil {
		return nil, err
	}

	s.workload = w

	s.counter = tracing.NewFlitCounter(tracing.AllFlits)
	tracing.AttachToBuffers(s.counter, s.net.Buffers()...)

	return s, nil
}

func randomSource(cfg *config.Configuration, opts runOptions) sim.RandomSource {
	if opts.stream {
		return sim.NewStream("traffic")
	}

	seed := int64(cfg.GetInt("seed"))
	if opts.seed >= 0 {
		seed = opts.seed
	}

	return sim.NewRandom(seed)
}

func runSimulation(cfg *config.Configuration, opts runOptions) error {
	s, err := buildSimulation(cfg, randomSource(cfg, opts))
	if err != nil {
		return err
	}

	if opts.watch != "" {
		err = s.attachWatchLog(opts.watch)
		if err != nil {
			return err
		}
	}

	if opts.monitor {
		s.attachMonitor(cfg, opts)
	}

	var rec datarecording.DataRecorder
	if opts.db != "" {
		rec = datarecording.NewDataRecorderWithConfig(
			datarecording.ConfigFromTarget(opts.db))
		atexit.Register(func() {
			if err := rec.Close(); err != nil {
				log.Printf("closing %s: %v", opts.db, err)
			}
		})
	}

	err = s.manager.Run()
	if err != nil {
		return err
	}

	s.manager.DisplayOverallStats(os.Stdout)

	if opts.csv != "" {
		err = s.writeCSV(opts.csv)
		if err != nil {
			return err
		}
	}

	if opts.statsOut != "" {
		err = s.writeClassStats(opts.statsOut)
		if err != nil {
			return err
		}
	}

	if rec != nil {
		trafficmanager.RecordResults(rec, s.manager, s.workload)
		s.counter.Record(rec)
	}

	return nil
}

func (s *simulation) attachWatchLog(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating watch file: %w", err)
	}

	atexit.Register(func() { f.Close() })

	out := log.New(f, "", 0)
	s.manager.SetWatchOut(out)
	tracing.AttachToBuffers(tracing.NewWatchHook(out), s.net.Buffers()...)

	return nil
}

func (s *simulation) attachMonitor(cfg *config.Configuration, opts runOptions) {
	mon := monitoring.NewMonitor().
		WithPortNumber(opts.monitorPort).
		WithSamplesPerTrial(cfg.GetInt("max_samples"))

	if opts.openBrowser {
		mon.WithBrowser()
	}

	mon.RegisterBuffers(s.net.Buffers()...)
	mon.RegisterComponent(s.net.Name(), s.net)
	mon.RegisterComponent(s.manager.Name(), s.manager)

	s.manager.AcceptHook(mon)
	mon.StartServer()
}

func (s *simulation) writeCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	return s.manager.OverallStatsCSV(f)
}

func (s *simulation) writeClassStats(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating stats file: %w", err)
	}

	s.manager.WriteClassStats(f)

	return f.Close()
}
