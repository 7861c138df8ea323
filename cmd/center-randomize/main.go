// center-randomize is a batch tool which assigns exam centers to
// schools, distributing each school's students across one or more
// centers subject to center capacity, geographic proximity, and
// school-expressed preferences.
package main

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/jessevdk/go-flags"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ashiishme/center-randomize/allocator"
	mbp "github.com/ashiishme/center-randomize/mainboilerplate"
	"github.com/ashiishme/center-randomize/tsv"
)

const (
	iniFilename = "center-randomize.ini"
	traceFile   = "school-center-distance.tsv"
)

// Config is the top-level configuration object of center-randomize.
// Allocation parameters are optional overrides layered over the policy
// (which itself defaults to allocator.DefaultPolicy, optionally replaced
// by --alloc.policy YAML).
var Config = new(struct {
	Alloc struct {
		PrefDistanceKm *float64 `long:"pref-distance" env:"PREF_DISTANCE" description:"Preferred distance threshold in km (default 2)"`
		AbsDistanceKm  *float64 `long:"abs-distance" env:"ABS_DISTANCE" description:"Absolute distance threshold of the relaxed pass in km (default 7)"`
		MinPerCenter   *int     `long:"min-per-center" env:"MIN_PER_CENTER" description:"Minimum viable number of students to place at a center (default 10)"`
		StretchFactor  *float64 `long:"stretch-factor" env:"STRETCH_FACTOR" description:"Fraction of nominal capacity a center may be stretched (default 0.02)"`
		PrefCutoff     *int     `long:"pref-cutoff" env:"PREF_CUTOFF" description:"Exclude centers with preference score at or below this cutoff (default -4)"`
		Policy         string   `long:"policy" env:"POLICY" description:"YAML policy file overriding allocation parameters"`
		Seed           int64    `long:"seed" short:"s" env:"SEED" description:"Seed of the run's random number generator. The wall clock is used if zero"`
		ResultsDir     string   `long:"results-dir" env:"RESULTS_DIR" default:"results" description:"Directory results are written to"`
		Output         string   `long:"output" short:"o" env:"OUTPUT" default:"school-center.tsv" description:"Name of the allocation output file"`
	} `group:"Allocation" namespace:"alloc" env-namespace:"ALLOC"`

	Log         mbp.LogConfig         `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Diagnostics mbp.DiagnosticsConfig `group:"Debug" namespace:"debug" env-namespace:"DEBUG"`
})

type cmdAllocate struct {
	Args struct {
		SchoolsTSV flags.Filename `positional-arg-name:"schools-tsv" required:"true" description:"Tab separated (TSV) file of school details"`
		CentersTSV flags.Filename `positional-arg-name:"centers-tsv" required:"true" description:"Tab separated (TSV) file of center details"`
		PrefsTSV   flags.Filename `positional-arg-name:"prefs-tsv" required:"true" description:"Tab separated (TSV) file of preference scores"`
	} `positional-args:"true"`
}

func (cmd *cmdAllocate) Execute([]string) error {
	mbp.InitLog(Config.Log)
	mbp.InitDiagnostics(Config.Diagnostics)

	var seed = Config.Alloc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var runID = petname.Generate(2, "-")

	log.WithFields(log.Fields{
		"run":  runID,
		"seed": seed,
	}).Info("starting allocation run")

	var fs = afero.NewOsFs()
	var policy = loadPolicy(fs)

	var schools = readSchools(fs, string(cmd.Args.SchoolsTSV))
	var centers = readCenters(fs, string(cmd.Args.CentersTSV))
	var entries = readPrefs(fs, string(cmd.Args.PrefsTSV))

	log.WithFields(log.Fields{
		"schools": len(schools),
		"centers": len(centers),
		"prefs":   len(entries),
	}).Info("loaded inputs")

	var traceOut, err = tsv.CreateResult(fs, Config.Alloc.ResultsDir, traceFile)
	mbp.Must(err, "failed to create trace output")
	allocOut, err := tsv.CreateResult(fs, Config.Alloc.ResultsDir, Config.Alloc.Output)
	mbp.Must(err, "failed to create allocation output")

	trace, err := tsv.NewTraceWriter(traceOut)
	mbp.Must(err, "failed to begin trace output")
	alloc, err := tsv.NewAllocationWriter(allocOut)
	mbp.Must(err, "failed to begin allocation output")

	var summary = allocator.Run(allocator.RunArgs{
		Schools: schools,
		Centers: centers,
		Prefs:   allocator.BuildPreferenceTable(entries),
		Policy:  policy,
		Rand:    rand.New(rand.NewSource(seed)),
		TraceHook: func(s allocator.School, c allocator.Candidate) {
			mbp.Must(trace.Write(s, c), "failed to write trace row")
		},
		OnAllocation: func(s allocator.School, c allocator.Candidate, amount int) {
			mbp.Must(alloc.Write(s, c, amount), "failed to write allocation row")
		},
	})

	mbp.Must(trace.Flush(), "failed to flush trace output")
	mbp.Must(alloc.Flush(), "failed to flush allocation output")
	mbp.Must(traceOut.Close(), "failed to close trace output")
	mbp.Must(allocOut.Close(), "failed to close allocation output")

	renderSummary(summary)

	log.WithFields(log.Fields{
		"run":        runID,
		"assigned":   humanize.Comma(int64(summary.StudentsAssigned)),
		"unassigned": humanize.Comma(int64(summary.StudentsUnassigned)),
		"remaining":  humanize.Comma(int64(summary.TotalRemaining)),
		"schools":    summary.SchoolsProcessed,
	}).Info("allocation run complete")

	return nil
}

// renderSummary prints per-center remaining capacity. Negative rows are
// centers stretched beyond nominal capacity.
func renderSummary(summary allocator.Summary) {
	if len(summary.RemainingByCenter) == 0 {
		return
	}
	var table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Center", "Remaining"})

	for _, r := range summary.RemainingByCenter {
		table.Append([]string{r.CenterCode, strconv.Itoa(r.Remaining)})
	}
	table.Render()
}

func loadPolicy(fs afero.Fs) allocator.Policy {
	var policy = allocator.DefaultPolicy()

	if Config.Alloc.Policy != "" {
		var f, err = fs.Open(Config.Alloc.Policy)
		mbp.Must(err, "failed to open policy file")
		policy, err = allocator.LoadPolicy(f)
		mbp.Must(err, "failed to load policy file")
		mbp.Must(f.Close(), "failed to close policy file")
	}

	if v := Config.Alloc.PrefDistanceKm; v != nil {
		policy.PrefDistanceKm = *v
	}
	if v := Config.Alloc.AbsDistanceKm; v != nil {
		policy.AbsDistanceKm = *v
	}
	if v := Config.Alloc.MinPerCenter; v != nil {
		policy.MinPerCenter = *v
	}
	if v := Config.Alloc.StretchFactor; v != nil {
		policy.StretchFactor = *v
	}
	if v := Config.Alloc.PrefCutoff; v != nil {
		policy.PrefCutoff = *v
	}
	mbp.Must(policy.Validate(), "invalid allocation policy")

	return policy
}

func readSchools(fs afero.Fs, path string) []allocator.School {
	var f, err = fs.Open(path)
	mbp.Must(err, "failed to open schools input")
	schools, err := tsv.ReadSchools(f, path)
	mbp.Must(err, "failed to read schools input")
	mbp.Must(f.Close(), "failed to close schools input")
	return schools
}

func readCenters(fs afero.Fs, path string) []allocator.Center {
	var f, err = fs.Open(path)
	mbp.Must(err, "failed to open centers input")
	centers, err := tsv.ReadCenters(f, path)
	mbp.Must(err, "failed to read centers input")
	mbp.Must(f.Close(), "failed to close centers input")
	return centers
}

func readPrefs(fs afero.Fs, path string) []allocator.PreferenceEntry {
	var f, err = fs.Open(path)
	mbp.Must(err, "failed to open prefs input")
	entries, err := tsv.ReadPrefs(f, path)
	mbp.Must(err, "failed to read prefs input")
	mbp.Must(f.Close(), "failed to close prefs input")
	return entries
}

func main() {
	var parser = flags.NewParser(Config, flags.Default)
	parser.LongDescription = `
center-randomize distributes each school's students across exam centers,
subject to per-center capacity, geographic proximity, and school
preference scores. It reads schools, centers and preferences as TSV and
writes an allocation plan plus a per-candidate distance trace.
`
	var _, err = parser.AddCommand("allocate", "Assign exam centers to schools", `
Assign exam centers to schools.

Schools are processed largest cohort first. Each school receives a
normal pass over centers within the preferred distance, then a relaxed
pass over the absolute distance with stretched center capacity if
students remain. Remaining unassigned students are reported, never
fatal.
`, &cmdAllocate{})
	mbp.Must(err, "failed to add command")

	mbp.AddPrintConfigCmd(parser, iniFilename)
	mbp.MustParseConfig(parser, iniFilename)
}
