// Splitsort is the command-line front end for the SplitSort engine.
//
// Usage:
//
//	splitsort generate <numKeys> <seed>
//	splitsort sort <numKeysToSort> <numThreads> <numSamples> <numPartitions>
//
// generate populates the unsorted record file with a seeded shuffled
// permutation; sort runs the engine over it and verifies the result.
// Both default to the conventional fsdax path and accept -input to point
// elsewhere. Argument mistakes print the usage and exit 0; mapping and
// verification failures exit non-zero.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/kohyida1997/splitsort"
	"github.com/kohyida1997/splitsort/internal/datagen"
)

// defaultInputPath is the conventional location of the unsorted record file
// on an fsdax mount.
const defaultInputPath = "/dcpmm/yida/UNSORTED_KEYS"

type generateCmd struct {
	input string
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "populate the unsorted NVM record file" }
func (*generateCmd) Usage() string {
	return `generate [-input <path>] <numKeys> <seed>:
  Write a shuffled permutation of [0, numKeys) as fixed-size records.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", defaultInputPath, "record file to create")
}

func (c *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logrus.StandardLogger()

	if f.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "num args supplied = %d\n%s", f.NArg(), c.Usage())
		return subcommands.ExitSuccess
	}
	numKeys, err := strconv.ParseUint(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitSuccess
	}
	seed, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitSuccess
	}

	log.Infof("generating %d records (%d bytes each) with seed %d", numKeys, splitsort.RecordSize, seed)
	err = datagen.Generate(datagen.Config{
		Path:    c.input,
		NumKeys: numKeys,
		Seed:    uint64(seed),
		Logger:  log,
	})
	if err != nil {
		log.Errorf("generate failed: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type sortCmd struct {
	input       string
	arenaPrefix string
}

func (*sortCmd) Name() string     { return "sort" }
func (*sortCmd) Synopsis() string { return "sort the NVM record file with SplitSort" }
func (*sortCmd) Usage() string {
	return `sort [-input <path>] [-arena-prefix <path>] <numKeysToSort> <numThreads> <numSamples> <numPartitions>:
  Sample, partition, insert and drain; verify the drained output.
`
}

func (c *sortCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", defaultInputPath, "record file to sort")
	f.StringVar(&c.arenaPrefix, "arena-prefix", "", "path prefix for partition arena files (default <input>.pool)")
}

func (c *sortCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logrus.StandardLogger()

	if f.NArg() != 4 {
		fmt.Fprintf(os.Stderr, "num args supplied = %d\n%s", f.NArg(), c.Usage())
		return subcommands.ExitSuccess
	}
	var args [4]uint64
	for i := range args {
		v, err := strconv.ParseUint(f.Arg(i), 10, 64)
		if err != nil {
			fmt.Fprint(os.Stderr, c.Usage())
			return subcommands.ExitSuccess
		}
		args[i] = v
	}
	numKeys, numThreads, numSamples, numPartitions := args[0], args[1], args[2], args[3]

	log.Infof("records=%d threads=%d samples=%d partitions=%d", numKeys, numThreads, numSamples, numPartitions)

	opts := []splitsort.Option{
		splitsort.WithThreads(int(numThreads)),
		splitsort.WithSamples(int(numSamples)),
		splitsort.WithPartitions(int(numPartitions)),
		splitsort.WithLogger(log),
	}
	if c.arenaPrefix != "" {
		opts = append(opts, splitsort.WithArenaPrefix(c.arenaPrefix))
	}

	s, err := splitsort.New(c.input, numKeys, opts...)
	if err != nil {
		log.Errorf("map failed: %v", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	pairs, err := s.Sort()
	if err != nil {
		log.Errorf("sort failed: %v", err)
		return subcommands.ExitFailure
	}

	log.Info("verifying keys are correctly sorted")
	if err := splitsort.CheckSorted(pairs, int(numThreads)); err != nil {
		log.Errorf("sort check failed: %v", err)
		return subcommands.ExitFailure
	}
	log.Infof("success: %d keys in ascending order (digest %016x)", len(pairs), splitsort.KeyDigest(pairs))
	return subcommands.ExitSuccess
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&sortCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
