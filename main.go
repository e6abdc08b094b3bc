package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/percona/percona-linked-lists/config"
	"github.com/percona/percona-linked-lists/errors"
	"github.com/percona/percona-linked-lists/exercise"
	"github.com/percona/percona-linked-lists/log"
	"github.com/percona/percona-linked-lists/metrics"
	"github.com/percona/percona-linked-lists/sel"
)

func main() {
	var (
		logLevelFlag string
		logJSON      bool
		logNoColor   bool
	)

	rootCmd := &cobra.Command{
		Use:   "lists",
		Short: "Exercise the exclusive and the shared linked lists",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logLevel, err := zerolog.ParseLevel(logLevelFlag)
			if err != nil {
				log.InitGlobals(0, logJSON, true).Fatal().Msg("Unknown log level")
			}

			lg := log.InitGlobals(logLevel, logJSON, logNoColor)
			ctx := lg.WithContext(context.Background())
			cmd.SetContext(ctx)
		},
	}

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output log in JSON format")
	rootCmd.PersistentFlags().BoolVar(&logNoColor, "no-color", false, "Disable log color")

	runFlags := &scenarioFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selected scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := runFlags.options()
			if err != nil {
				return err
			}

			scenarios := exercise.Select(sel.MakeFilter(runFlags.include, runFlags.exclude))
			if len(scenarios) == 0 {
				return errors.New("no scenario selected")
			}

			metrics.Init(prometheus.NewRegistry())

			results, err := exercise.Run(cmd.Context(), scenarios, opts)
			printResults(cmd.OutOrStdout(), results)

			return err //nolint:wrapcheck
		},
	}
	runFlags.register(runCmd.Flags())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the scenario catalogue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, s := range exercise.Scenarios() {
				fmt.Fprintf(w, "%s\t%s\n", s.FullName(), s.Description)
			}

			return errors.Wrap(w.Flush(), "flush")
		},
	}

	var port string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenario runs and metrics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), port)
		},
	}
	serveCmd.Flags().StringVar(&port, "port", "2242", "Port number")

	rootCmd.AddCommand(runCmd, listCmd, serveCmd)

	err := rootCmd.Execute()
	if err != nil {
		zerolog.Ctx(context.Background()).Fatal().Err(err).Msg("")
	}
}

// scenarioFlags holds the flags shared by the run command.
type scenarioFlags struct {
	include  []string
	exclude  []string
	size     string
	teardown string
	readers  int
	parallel int
	timeout  time.Duration
}

func (f *scenarioFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.include, "include", nil, "Scenarios to run (group.name or group.*)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "Scenarios to skip (group.name or group.*)")
	fs.StringVar(&f.size, "size", strconv.Itoa(config.DefaultLIFOSize), "Elements used by sized scenarios")
	fs.StringVar(&f.teardown, "teardown-size", "", "Nodes pushed before a teardown [env LISTS_TEARDOWN_SIZE]")
	fs.IntVar(&f.readers, "readers", config.DefaultReaders, "Concurrent readers in shared.readers")
	fs.IntVar(&f.parallel, "parallel", 0, "Scenarios run at the same time [env LISTS_PARALLEL]")
	fs.DurationVar(&f.timeout, "timeout", config.ScenarioTimeout, "Timeout of a single scenario")
}

func (f *scenarioFlags) options() (exercise.Options, error) {
	opts := exercise.DefaultOptions()

	size, err := config.ParseCount(f.size)
	if err != nil {
		return opts, errors.Wrap(err, "invalid --size")
	}
	opts.Size = size

	if f.teardown != "" {
		n, err := config.ParseCount(f.teardown)
		if err != nil {
			return opts, errors.Wrap(err, "invalid --teardown-size")
		}
		opts.TeardownSize = n
	}

	if f.readers > 0 {
		opts.Readers = f.readers
	}
	if f.parallel > 0 {
		opts.Parallel = f.parallel
	}
	if f.timeout > 0 {
		opts.Timeout = f.timeout
	}

	return opts, nil
}

func printResults(out io.Writer, results []exercise.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range results {
		if r.Group == "" {
			continue // not started
		}

		status := "ok"
		if r.Err != nil {
			status = "FAIL: " + r.Err.Error()
		}

		fmt.Fprintf(w, "%s\t%s nodes\t%s\t%s\n",
			r.FullName(), humanize.Comma(r.Nodes), r.Duration.Round(time.Microsecond), status)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Fprintf(w, "heap in use\t%s\n", humanize.Bytes(ms.HeapInuse))

	_ = w.Flush()
}

// runServer serves scenario runs and metrics on localhost:port.
func runServer(ctx context.Context, port string) error {
	addr, err := buildServerAddr(port)
	if err != nil {
		return errors.Wrap(err, "build server address")
	}

	reg := prometheus.NewRegistry()
	metrics.Init(reg)

	srv := &server{reg: reg}

	httpServer := http.Server{
		Addr:    addr,
		Handler: srv.Handler(),

		ReadTimeout:       config.ServerReadTimeout,
		ReadHeaderTimeout: config.ServerReadHeaderTimeout,
	}

	log.Ctx(ctx).Info("Starting server at http://" + addr)

	err = httpServer.ListenAndServe()
	if err != nil {
		return errors.Wrap(err, "listen")
	}

	return nil
}

var errUnsupportedPortRange = errors.New("port value is outside the supported range [1024 - 65535]")

// buildServerAddr constructs the server address from the port.
func buildServerAddr(port string) (string, error) {
	i, err := strconv.ParseInt(port, 10, 32)
	if err != nil {
		return "", errors.Wrap(err, "invalid port value format")
	}

	if i < 1024 || i > 65535 {
		return "", errUnsupportedPortRange
	}

	return "localhost:" + port, nil
}

// server serves scenario runs over HTTP.
type server struct {
	// reg holds the metrics exposed on /metrics.
	reg *prometheus.Registry
}

// Handler returns the HTTP handler for the server.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/scenarios", s.handleScenarios)
	mux.HandleFunc("/run", s.handleRun)
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.New("http").Info(r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// handleScenarios handles the /scenarios endpoint.
func (s *server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)

		return
	}

	res := scenariosResponse{Ok: true}
	for _, sc := range exercise.Scenarios() {
		res.Scenarios = append(res.Scenarios, scenarioInfo{
			Name:        sc.FullName(),
			Description: sc.Description,
		})
	}

	writeResponse(w, res)
}

// handleRun handles the /run endpoint.
func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.ServerResponseTimeout)
	defer cancel()

	if r.Method != http.MethodPost {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)

		return
	}

	if r.ContentLength > config.MaxRequestSize {
		http.Error(w,
			http.StatusText(http.StatusRequestEntityTooLarge),
			http.StatusRequestEntityTooLarge)

		return
	}

	var params runRequest

	if r.ContentLength != 0 {
		data, err := io.ReadAll(io.LimitReader(r.Body, config.MaxRequestSize))
		if err != nil {
			http.Error(w,
				http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)

			return
		}

		err = json.Unmarshal(data, &params)
		if err != nil {
			http.Error(w,
				http.StatusText(http.StatusBadRequest),
				http.StatusBadRequest)

			return
		}
	}

	opts := exercise.DefaultOptions()
	if params.Size > 0 {
		opts.Size = params.Size
	}
	if params.TeardownSize > 0 {
		opts.TeardownSize = params.TeardownSize
	}
	if params.Parallel > 0 {
		opts.Parallel = params.Parallel
	}

	scenarios := exercise.Select(sel.MakeFilter(params.Include, params.Exclude))
	if len(scenarios) == 0 {
		writeResponse(w, runResponse{Err: "no scenario selected"})

		return
	}

	results, err := exercise.Run(ctx, scenarios, opts)

	res := runResponse{Ok: err == nil}
	if err != nil {
		res.Err = err.Error()
	}

	for _, result := range results {
		if result.Group == "" {
			continue
		}

		rr := scenarioResult{
			Name:       result.FullName(),
			Nodes:      result.Nodes,
			DurationMS: result.Duration.Milliseconds(),
		}
		if result.Err != nil {
			rr.Err = result.Err.Error()
		}

		res.Results = append(res.Results, rr)
	}

	writeResponse(w, res)
}

// writeResponse writes the response as JSON to the ResponseWriter.
func writeResponse[T any](w http.ResponseWriter, resp T) {
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		http.Error(w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
	}
}

// runRequest represents the request body for the /run endpoint.
type runRequest struct {
	// Include are the scenarios to run. Empty means all.
	Include []string `json:"include,omitempty"`
	// Exclude are the scenarios to skip.
	Exclude []string `json:"exclude,omitempty"`

	// Size is the number of elements used by sized scenarios.
	Size int `json:"size,omitempty"`
	// TeardownSize is the number of nodes pushed before a teardown.
	TeardownSize int `json:"teardownSize,omitempty"`
	// Parallel limits how many scenarios run at the same time.
	Parallel int `json:"parallel,omitempty"`
}

// runResponse represents the response body for the /run endpoint.
type runResponse struct {
	// Ok indicates if every scenario passed.
	Ok bool `json:"ok"`
	// Err is the error message if the run failed.
	Err string `json:"error,omitempty"`

	// Results holds one entry per scenario that ran.
	Results []scenarioResult `json:"results,omitempty"`
}

type scenarioResult struct {
	Name       string `json:"name"`
	Nodes      int64  `json:"nodes"`
	DurationMS int64  `json:"durationMs"`
	Err        string `json:"error,omitempty"`
}

// scenariosResponse represents the response body for the /scenarios endpoint.
type scenariosResponse struct {
	Ok        bool           `json:"ok"`
	Scenarios []scenarioInfo `json:"scenarios"`
}

type scenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
