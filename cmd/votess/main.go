// Command votess computes, for every point in a 3D point cloud, its
// direct Voronoi neighbors, and dumps the resulting ragged adjacency list
// to stdout or a file — one line per sorted point, neighbor indices
// separated by single spaces.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/azybler/votess/pkg/adjacency"
	"github.com/azybler/votess/pkg/config"
	"github.com/azybler/votess/pkg/planes"
	"github.com/azybler/votess/pkg/tessellate"
)

const version = "votess 0.1.0"

type cliFlags struct {
	infile       string
	outfile      string
	configFile   string
	useDevice    string
	kInit        int
	gridRes      int
	cpuNThreads  int
	gpuNDSize    int
	pMaxSize     int
	tMaxSize     int
	chunkSize    int
	useChunking  bool
	useRecompute bool
	showHelp     bool
	showVersion  bool
}

func parseFlags(args []string) (*cliFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("votess", flag.ContinueOnError)
	f := &cliFlags{}

	str := func(short, long, def, usage string, dst *string) {
		*dst = def
		fs.StringVar(dst, short, def, usage)
		fs.StringVar(dst, long, def, usage)
	}
	intv := func(short, long string, def int, usage string, dst *int) {
		*dst = def
		fs.IntVar(dst, short, def, usage)
		fs.IntVar(dst, long, def, usage)
	}
	boolv := func(short, long string, def bool, usage string, dst *bool) {
		*dst = def
		fs.BoolVar(dst, short, def, usage)
		fs.BoolVar(dst, long, def, usage)
	}

	str("i", "infile", "", "input point file, whitespace-separated x y z per line", &f.infile)
	str("o", "outfile", "", "output adjacency file (default: stdout)", &f.outfile)
	fs.StringVar(&f.configFile, "config", "", "optional YAML configuration file")
	str("x", "use-device", "cpu", "execution path: cpu|gpu", &f.useDevice)
	intv("k", "k-init", 0, "initial k for kNN (0: use config default)", &f.kInit)
	intv("g", "grid-resolution", 0, "grid resolution G (0: use config default)", &f.gridRes)
	intv("t", "cpu-nthreads", 0, "host worker count (0: all hardware threads)", &f.cpuNThreads)
	intv("d", "gpu-ndsize", 0, "device local-range size (0: use config default)", &f.gpuNDSize)
	intv("p", "p-maxsize", 0, "per-point plane capacity (0: use config default)", &f.pMaxSize)
	intv("m", "t-maxsize", 0, "per-point triangle capacity (0: use config default)", &f.tMaxSize)
	intv("c", "chunksize", 0, "point-batch size for pipelined dispatch (0: use config default)", &f.chunkSize)
	boolv("u", "use-chunking", false, "enable chunked dispatch", &f.useChunking)
	boolv("r", "use-recompute", false, "retry overflowed points with larger capacities", &f.useRecompute)
	boolv("h", "help", false, "show usage and exit", &f.showHelp)
	boolv("v", "version", false, "show version and exit", &f.showVersion)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

func (f *cliFlags) overlay(cfg config.Config) config.Config {
	if f.kInit > 0 {
		cfg.K = f.kInit
	}
	if f.gridRes > 0 {
		cfg.KNNGridResolution = f.gridRes
	}
	if f.cpuNThreads > 0 {
		cfg.CPUNThreads = f.cpuNThreads
	}
	if f.gpuNDSize > 0 {
		cfg.GPUNDSize = f.gpuNDSize
	}
	if f.pMaxSize > 0 {
		cfg.CCPMaxSize = f.pMaxSize
	}
	if f.tMaxSize > 0 {
		cfg.CCTMaxSize = f.tMaxSize
	}
	if f.chunkSize > 0 {
		cfg.ChunkSize = f.chunkSize
	}
	if f.useChunking {
		cfg.UseChunking = true
	}
	if f.useRecompute {
		cfg.UseRecompute = true
	}
	return cfg
}

func main() {
	f, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if f.showVersion {
		fmt.Println(version)
		return
	}
	if f.showHelp {
		fmt.Fprintln(os.Stdout, "Usage: votess -i <points.txt> [-o out.txt] [-x cpu|gpu] [-k N] [-g N] ...")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		return
	}
	if f.infile == "" {
		fmt.Fprintln(os.Stderr, "Usage: votess -i <points.txt> [-o out.txt] [-x cpu|gpu] [-k N] [-g N] ...")
		os.Exit(1)
	}

	if err := run(f); err != nil {
		log.Printf("votess: %v", err)
		os.Exit(1)
	}
}

func run(f *cliFlags) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = f.overlay(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	start := time.Now()

	log.Printf("Reading points from %s...", f.infile)
	points, err := readPoints(f.infile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	log.Printf("Read %d points", len(points))

	backend, err := selectBackend(f.useDevice)
	if err != nil {
		return err
	}

	log.Printf("Tessellating with k=%d, G=%d, device=%s...", cfg.K, cfg.KNNGridResolution, f.useDevice)
	adj, stats, err := backend.Run(context.Background(), points, cfg)
	if err != nil {
		return fmt.Errorf("tessellating: %w", err)
	}
	log.Printf("Done in %s. %d/%d points succeeded, %d security-radius early-exits, %d overflowed.",
		time.Since(start).Round(time.Millisecond), stats.TotalPoints-stats.Fatal, stats.TotalPoints,
		stats.SecurityRadiusReached, stats.POverflow+stats.TOverflow)

	if err := writeAdjacency(f.outfile, adj); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if stats.SuccessRate() < 0.99 {
		return fmt.Errorf("success rate %.2f%% below 99%% threshold", stats.SuccessRate()*100)
	}
	return nil
}

func selectBackend(useDevice string) (tessellate.Backend, error) {
	switch strings.ToLower(useDevice) {
	case "", "cpu":
		return tessellate.HostBackend{}, nil
	case "gpu":
		return tessellate.DeviceBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown --use-device value %q (want cpu or gpu)", useDevice)
	}
}

func readPoints(path string) ([]planes.Vec3, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var points []planes.Vec3
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		z, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		points = append(points, planes.Vec3{X: x, Y: y, Z: z})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func writeAdjacency(path string, adj *adjacency.Adjacency) error {
	out := os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	var sb strings.Builder
	for i := 0; i < adj.NumPoints(); i++ {
		sb.Reset()
		for j, nb := range adj.Neighbors(i) {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatUint(uint64(nb), 10))
		}
		sb.WriteByte('\n')
		if _, err := w.WriteString(sb.String()); err != nil {
			return err
		}
	}
	return nil
}
