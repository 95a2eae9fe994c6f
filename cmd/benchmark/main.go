package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/limaJavier/treewidth/pkg/model"
	"github.com/limaJavier/treewidth/pkg/smt"
	"github.com/samber/lo"
)

type FamilyType int

const (
	path FamilyType = iota
	cycle
	complete
	grid
	random
)

var (
	familyTypes = map[FamilyType]string{
		path:     "path",
		cycle:    "cycle",
		complete: "complete",
		grid:     "grid",
		random:   "random",
	}
	statusTypes = map[model.Status]string{
		model.Feasible:      "feasible",
		model.Infeasible:    "infeasible",
		model.Indeterminate: "timeout",
	}
)

type Instance struct {
	Family FamilyType
	Size   uint64
	Graph  model.Graph
	Bound  uint64
}

type BenchmarkResult struct {
	Instance Instance
	Duration int64
	Result   model.Status
	Error    error
}

func main() {
	configPathPtr := flag.String("config", "", "Path to the json config file; if empty, z3 from PATH is used")
	maxSizePtr := flag.Uint64("max", 8, "Largest family parameter to benchmark")
	outFilePtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where results are written")
	flag.Parse()

	config := smt.DefaultConfig()
	if *configPathPtr != "" {
		var err error
		if config, err = smt.LoadConfig(*configPathPtr); err != nil {
			log.Fatalf("cannot load config: %v", err)
		}
	}
	decider := model.NewSMTDecider(config, model.DefaultLimits())

	instances := getInstances(*maxSizePtr, rand.New(rand.NewPCG(1, 2)))
	results := make([]BenchmarkResult, 0, len(instances))
	for _, instance := range instances {
		fmt.Printf("Benchmarking family \"%v\" with size %v and bound %v\n", familyTypes[instance.Family], instance.Size, instance.Bound)
		results = append(results, measure(decider, instance))
	}

	toCsv(*outFilePtr, results)
}

// Every family is decided one below its treewidth and at its treewidth (grid and random just at a few bounds)
func getInstances(maxSize uint64, rng *rand.Rand) []Instance {
	instances := make([]Instance, 0)
	for size := uint64(3); size <= maxSize; size++ {
		instances = append(instances,
			Instance{Family: path, Size: size, Graph: pathGraph(size), Bound: 1},
			Instance{Family: cycle, Size: size, Graph: cycleGraph(size), Bound: 1},
			Instance{Family: cycle, Size: size, Graph: cycleGraph(size), Bound: 2},
			Instance{Family: complete, Size: size, Graph: completeGraph(size), Bound: size - 2},
			Instance{Family: complete, Size: size, Graph: completeGraph(size), Bound: size - 1},
		)
		if size*size <= model.DefaultMaxVertices {
			instances = append(instances,
				Instance{Family: grid, Size: size, Graph: gridGraph(size), Bound: size - 1},
				Instance{Family: grid, Size: size, Graph: gridGraph(size), Bound: size},
			)
		}
		randomInstance := randomGraph(size*2, 0.3, rng)
		instances = append(instances, lo.Times(int(size)-1, func(i int) Instance {
			return Instance{Family: random, Size: size * 2, Graph: randomInstance, Bound: uint64(i) + 1}
		})...)
	}

	return lo.Filter(instances, func(instance Instance, _ int) bool {
		return model.DefaultLimits().Validate(instance.Graph, instance.Bound) == nil
	})
}

func measure(decider model.Decider, instance Instance) BenchmarkResult {
	start := time.Now()
	outcome, err := decider.Decide(context.Background(), instance.Graph, instance.Bound)
	duration := time.Since(start).Milliseconds()

	if err == nil && outcome.Status == model.Feasible && !decider.Verify(instance.Graph, instance.Bound, outcome.Order) {
		err = fmt.Errorf("elimination order %v does not witness bound %v", outcome.Order, instance.Bound)
	}

	return BenchmarkResult{
		Instance: instance,
		Duration: duration,
		Result:   outcome.Status,
		Error:    err,
	}
}

func toCsv(file string, results []BenchmarkResult) {
	out, err := os.Create(file)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Family", "Size", "Vertices", "Edges", "Bound", "Duration(ms)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toRecord(result BenchmarkResult) []string {
	status := statusTypes[result.Result]
	if result.Error != nil {
		status = "error: " + result.Error.Error()
	}

	return []string{
		familyTypes[result.Instance.Family],
		fmt.Sprintf("%d", result.Instance.Size),
		fmt.Sprintf("%d", result.Instance.Graph.Vertices),
		fmt.Sprintf("%d", len(result.Instance.Graph.Edges)),
		fmt.Sprintf("%d", result.Instance.Bound),
		fmt.Sprintf("%d", result.Duration),
		status,
	}
}

//** Graph families

func pathGraph(vertices uint64) model.Graph {
	return model.Graph{
		Vertices: vertices,
		Edges: lo.Times(int(vertices)-1, func(i int) [2]uint64 {
			return [2]uint64{uint64(i), uint64(i + 1)}
		}),
	}
}

func cycleGraph(vertices uint64) model.Graph {
	graph := pathGraph(vertices)
	graph.Edges = append(graph.Edges, [2]uint64{vertices - 1, 0})
	return graph
}

func completeGraph(vertices uint64) model.Graph {
	graph := model.Graph{Vertices: vertices, Edges: make([][2]uint64, 0)}
	for i := range vertices {
		for j := i + 1; j < vertices; j++ {
			graph.Edges = append(graph.Edges, [2]uint64{i, j})
		}
	}
	return graph
}

// side x side grid, whose treewidth is side
func gridGraph(side uint64) model.Graph {
	graph := model.Graph{Vertices: side * side, Edges: make([][2]uint64, 0)}
	for row := range side {
		for column := range side {
			vertex := row*side + column
			if column+1 < side {
				graph.Edges = append(graph.Edges, [2]uint64{vertex, vertex + 1})
			}
			if row+1 < side {
				graph.Edges = append(graph.Edges, [2]uint64{vertex, vertex + side})
			}
		}
	}
	return graph
}

func randomGraph(vertices uint64, probability float64, rng *rand.Rand) model.Graph {
	graph := model.Graph{Vertices: vertices, Edges: make([][2]uint64, 0)}
	for i := range vertices {
		for j := i + 1; j < vertices; j++ {
			if rng.Float64() < probability {
				graph.Edges = append(graph.Edges, [2]uint64{i, j})
			}
		}
	}
	return graph
}
