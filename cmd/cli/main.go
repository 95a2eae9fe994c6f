package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"slices"
	"syscall"

	"github.com/kr/pretty"
	"github.com/limaJavier/treewidth/pkg/model"
	"github.com/limaJavier/treewidth/pkg/smt"
	"github.com/samber/lo"
)

const (
	exitFeasible           = 10
	exitVerificationFailed = 15
	exitInfeasible         = 20
	exitIndeterminate      = 30
)

func main() {
	log.SetFlags(0)

	// Define arguments
	configPathPtr := flag.String("config", "", "Path to the json config file; if empty, config.json next to the executable is used when present, else z3 from PATH")
	filePathPtr := flag.String("file", "", "Path to the input file; if empty, the input is read from the Standard Input")
	searchPtr := flag.Bool("search", false, "Ignore the bound in the input and search for the treewidth by binary search")
	dumpPtr := flag.String("dump", "", "Path to the file where the SMT-LIB constraints will be written instead of solving them")
	verbosePtr := flag.Bool("verbose", false, "Print the effective configuration and the solver's log")
	flag.Parse()

	// Solver diagnostics are only shown on demand
	if !*verbosePtr {
		smt.Logger = log.New(io.Discard, "", 0)
		model.Logger = log.New(io.Discard, "", 0)
	}
	config := loadConfig(*configPathPtr)
	if *verbosePtr {
		pretty.Println(config)
	}

	// Extract input
	graph, bound, err := readInput(*filePathPtr)
	if err != nil {
		log.Fatalf("cannot parse input: %v", err)
	}

	if *dumpPtr != "" {
		dump(*dumpPtr, graph, bound)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	decider := model.NewSMTDecider(config, model.DefaultLimits())

	if *searchPtr {
		os.Exit(search(ctx, decider, graph))
	}
	os.Exit(decide(ctx, decider, graph, bound))
}

func decide(ctx context.Context, decider model.Decider, graph model.Graph, bound uint64) int {
	outcome, err := decider.Decide(ctx, graph, bound)
	if err != nil {
		log.Fatalf("an error occurred while deciding the treewidth: %v", err)
	}

	switch outcome.Status {
	case model.Infeasible:
		fmt.Println("Treewidth is larger.")
		return exitInfeasible
	case model.Feasible:
		fmt.Println("Treewidth is smaller or equal.")
		// Verify the elimination order before trusting it
		if !decider.Verify(graph, bound, outcome.Order) {
			fmt.Fprintln(os.Stderr, "the elimination order returned by the solver does not witness the bound")
			return exitVerificationFailed
		}
		for _, vertex := range outcome.Order {
			fmt.Println(vertex)
		}
		return exitFeasible
	default:
		fmt.Println("\nTimeout.")
		return exitIndeterminate
	}
}

func search(ctx context.Context, decider model.Decider, graph model.Graph) int {
	bounds, err := model.Search(ctx, decider, graph)
	if err != nil {
		log.Fatalf("an error occurred while searching the treewidth: %v", err)
	}

	if !decider.Verify(graph, bounds.Upper, bounds.Order) {
		fmt.Fprintln(os.Stderr, "the elimination order returned by the solver does not witness the upper bound")
		return exitVerificationFailed
	}

	fmt.Printf("Treewidth: %d-%d\n", bounds.Lower, bounds.Upper)
	for _, vertex := range bounds.Order {
		fmt.Println(vertex)
	}
	if !bounds.Exact {
		fmt.Println("\nTimeout.")
		return exitIndeterminate
	}
	return exitFeasible
}

func dump(file string, graph model.Graph, bound uint64) {
	out, err := os.Create(file)
	if err != nil {
		log.Fatalf("cannot create dump file: %v", err)
	}
	defer out.Close()

	if err := model.WriteConstraints(out, graph, bound); err != nil {
		log.Fatalf("an error occurred while writing the constraints: %v", err)
	}
}

func readInput(file string) (model.Graph, uint64, error) {
	limits := model.DefaultLimits()
	if file == "" {
		return model.InputFromReader(os.Stdin, limits)
	}
	return model.InputFromFile(file, limits)
}

// Uses the given config file, else config.json next to the executable, else the defaults
func loadConfig(configPath string) smt.Config {
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	if configPath == "" {
		return smt.DefaultConfig()
	}

	config, err := smt.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return config
}

func defaultConfigPath() string {
	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("cannot determine executable path: %v", err)
	}
	execPath = path.Dir(execPath)

	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Fatalf("cannot read executable's directory: %v", err)
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if !slices.Contains(fileNames, "config.json") {
		return ""
	}
	return path.Join(execPath, "config.json")
}
