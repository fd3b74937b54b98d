// Public domain.

package iprog

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"
	"gonum.org/v1/gonum/stat"

	"github.com/maven-iuvs/iuvs/anc"
	"github.com/maven-iuvs/iuvs/finder"
	"github.com/maven-iuvs/iuvs/fname"
	"github.com/maven-iuvs/iuvs/l1b"
)

const rootEnv = "IUVS_DATA_ROOT"
const versionString = "iuvs version 0.4 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()

	// these functions all set up package vars and terminate on error
	cl := parseCommandLine()
	opt := readConfig(cl)
	if cl.segment != "" {
		opt.segment = cl.segment
	}
	if cl.channel != "" {
		opt.channel = cl.channel
	}
	if cl.ancFile != "" {
		opt.ancFile = cl.ancFile
	}
	root := dataRoot(cl, opt)
	if cl.v {
		fmt.Printf("Data root %s, %d orbit blocks.\n", root, blockCount(root))
		os.Exit(0)
	}
	if opt.channel != "" && !fname.KnownChannel(opt.channel) {
		exit.Log("Unrecognized channel: " + opt.channel)
	}
	var af *anc.Set
	if opt.ancFile != "" {
		s, err := anc.ReadFile(opt.ancFile)
		if err != nil {
			exit.Log(err)
		}
		af = &s
	}

	// remainder of main constructs and starts all the concurrent parts
	// of the program.

	// prCh keeps results in survey order.  it is a buffered channel so
	// that a fast worker can drop off its result without waiting for
	// workers ahead of it.  the size of the buffer must be at least
	// maxWorkers, but otherwise isn't critical.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan *ticket, maxWorkers*2)
	workCh := make(chan *fileSeq)
	errCh := make(chan error)

	// dispatcher.  walks the orbit range, discovers files, and queues
	// each one for loading.  for each file, a return channel works like
	// a ticket for picking up the result in order.
	go dispatch(root, cl.first, cl.last, opt, workCh, prCh, errCh)

	// this function literal, run as a separate goroutine, starts the
	// worker goroutines (load.)  they are not all started up front, but
	// only as the dispatcher queues work for them.  after all, we may
	// have more cores than files.  once it has started the maximum
	// number of workers, its work is done.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			w, ok := <-workCh
			if !ok {
				return
			}
			go load(w, workCh, af, opt)
		}
	}()

	// column headings, delayed until now to avoid printing column
	// headings only to terminate with an error message if some
	// initialization fails.
	printHeadings(opt)

	// everything is on its way.  wait for results and print them as
	// they become available, closing out each orbit with a summary.
	cur := -1
	var files []*l1b.File
	for {
		select {
		case err := <-errCh:
			exit.Log(err)
		// wait here for the next ticket in survey order
		case t, ok := <-prCh:
			if !ok {
				summarize(cur, files, opt)
				return // normal return
			}
			if t.orbit != cur {
				summarize(cur, files, opt)
				cur = t.orbit
				files = files[:0]
			}
			if t.gap {
				if opt.gaps {
					fmt.Printf("%s  no files\n", fname.OrbitLabel(t.orbit))
				}
				continue
			}
			select {
			case err := <-errCh:
				exit.Log(err)
			case r := <-t.rch: // wait here for the load result
				fmt.Println(r.line)
				if r.f != nil {
					files = append(files, r.f)
				}
			}
		}
	}
}

// fileSeq is one unit of work, a product file to load and describe.
type fileSeq struct {
	path string
	rch  chan result
}

// ticket sequences output.  A gap ticket stands for an orbit with no
// files; any other redeems one load result.
type ticket struct {
	orbit int
	gap   bool
	rch   chan result
}

type result struct {
	line string
	f    *l1b.File
}

// discovery errors are reported and end the survey.  orbits without
// files are a normal condition and get a gap ticket instead.
func dispatch(root string, first, last int, opt *options,
	workCh chan *fileSeq, prCh chan *ticket, errCh chan error) {
	for orbit := first; orbit <= last; orbit++ {
		paths, err := finder.FindOrbit(root, orbit, opt.segment, opt.channel)
		if err != nil {
			errCh <- err
			break
		}
		if len(paths) == 0 {
			prCh <- &ticket{orbit: orbit, gap: true}
			continue
		}
		for _, p := range paths {
			w := &fileSeq{path: p, rch: make(chan result, 1)}
			workCh <- w // queue file for loading
			prCh <- &ticket{orbit: orbit, rch: w.rch}
		}
	}
	close(prCh)
}

// worker process, loads files and formats survey lines.
// the first file to load is passed in.  additional files are taken
// from workCh.  this is an infinite loop.  it just runs until the
// program shuts down.
func load(w *fileSeq, workCh chan *fileSeq, af *anc.Set, opt *options) {
	for ; ; w = <-workCh {
		f, err := l1b.Open(w.path)
		if err != nil {
			w.rch <- result{line: err.Error()}
			continue
		}
		note := ""
		if af != nil && af.Channel == f.Name.Channel {
			if c, err := af.FlatCorrect(f.Primary); err == nil {
				f.Primary = c
			} else {
				note = "  flat mismatch"
			}
		}

		// build output line
		rel := ""
		if f.Relay() {
			rel = "relay"
		}
		ol := fmt.Sprintf("%-12.12s %-19s %-3s v%02d_r%02d %4d %2d  %5.2f-%5.2f %-5s",
			f.Name.Segment,
			f.Name.Time.Format("2006-01-02 15:04:05"),
			f.Name.Channel, f.Name.Version, f.Name.Revision,
			f.Dims.NIntegration, f.SwathCount(),
			f.MinMirrorAngle().Deg(), f.MaxMirrorAngle().Deg(), rel)
		if opt.day {
			d := "night"
			if f.Dayside() {
				d = "day"
			}
			ol += fmt.Sprintf(" %-5s", d)
		}
		if opt.rms {
			if rms, err := f.TrackRms(); err != nil {
				ol += " **.**"
			} else if rs := fmt.Sprintf(" %5.2f", rms.Sec()); len(rs) == 6 {
				ol += rs
			} else {
				ol += " **.**"
			}
		}
		ol += note

		// results sent on the private result channel.
		w.rch <- result{line: ol, f: f} // buffered.  drop off and continue
	}
}

// summarize closes out one orbit with a collection level line.
func summarize(orbit int, files []*l1b.File, opt *options) {
	if orbit < 0 || len(files) == 0 {
		return
	}
	c, err := l1b.NewCollection(files)
	if err != nil {
		fmt.Printf("%s  %d files, %v\n\n", fname.OrbitLabel(orbit), len(files), err)
		return
	}
	rel := ""
	switch {
	case c.AllRelay():
		rel = "  all relay"
	case c.AnyRelay():
		rel = "  some relay"
	}
	day := c.DaysideMask()
	nday := 0
	for _, d := range day {
		if d {
			nday++
		}
	}
	// brightness statistics mean nothing on the nightside
	bright := ""
	if nday > 0 {
		p := c.StackPrimary()
		bs := p.Shape[1] * p.Shape[2]
		b := make([]float64, 0, nday*bs)
		for i, d := range day {
			if d {
				b = append(b, p.Data[i*bs:(i+1)*bs]...)
			}
		}
		bright = fmt.Sprintf("  %.2f +- %.2f kR dayside",
			stat.Mean(b, nil), stat.StdDev(b, nil))
	}
	fmt.Printf("%s  %d files %4d integrations %2d swaths  day %d/%d%s%s\n\n",
		fname.OrbitLabel(orbit), len(c.Files), c.NIntegrations(), c.SwathCount(),
		nday, c.NIntegrations(), bright, rel)
}

type commandLine struct {
	root    string // -r option
	segment string // -s option
	channel string // -c option
	config  string // -f option
	ancFile string // -a option
	first   int
	last    int
	v       bool // -v option
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.root, "r", "", "")
	flag.StringVar(&cl.segment, "s", "", "")
	flag.StringVar(&cl.channel, "c", "", "")
	flag.StringVar(&cl.config, "f", "", "")
	flag.StringVar(&cl.ancFile, "a", "", "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: iuvs [options] <orbit>          survey one orbit
       iuvs [options] <first> <last>   survey a range of orbits
       iuvs -h                         display help and quick reference
       iuvs -v                         display version and data root

Options:
       -r <data-root>
       -s <segment>
       -c <channel>
       -f <config-file>
       -a <ancillary-file>
`)
		if r := os.Getenv(rootEnv); r != "" {
			os.Stderr.WriteString(`
Default:
       -r=` + r + "\n")
		}
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		cl.v = true
	case flag.NArg() < 1 || flag.NArg() > 2:
		flag.Usage()
		os.Exit(1)
	}
	if !cl.v {
		var err error
		cl.first, err = strconv.Atoi(flag.Arg(0))
		cl.last = cl.first
		if err == nil && flag.NArg() == 2 {
			cl.last, err = strconv.Atoi(flag.Arg(1))
		}
		if err != nil || cl.first < 0 || cl.last < cl.first {
			flag.Usage()
			os.Exit(1)
		}
	}
	return &cl
}

type options struct {
	headings, rms, day, gaps bool
	segment, channel         string
	root, ancFile            string
}

func readConfig(cl *commandLine) *options {
	// default configuration
	opt := &options{headings: true, rms: true, day: true}
	if cl.config == "" {
		return opt
	}
	f, err := os.Open(cl.config)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	for lr := bufio.NewReader(f); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return opt
		case err != nil:
			exit.Log(err)
		case isPre:
			exit.Log("Unexpected long line in config file.")
		case len(l) == 0:
			continue
		case l[0] == '#':
			continue
		}
		ls := string(l)
		switch ls {
		case "headings":
			opt.headings = true
			continue
		case "noheadings":
			opt.headings = false
			continue
		case "rms":
			opt.rms = true
			continue
		case "norms":
			opt.rms = false
			continue
		case "day":
			opt.day = true
			continue
		case "noday":
			opt.day = false
			continue
		case "gaps":
			opt.gaps = true
			continue
		case "nogaps":
			opt.gaps = false
			continue
		}
		if k, v, ok := strings.Cut(ls, "="); ok {
			v = strings.TrimSpace(v)
			switch strings.TrimSpace(k) {
			case "segment":
				opt.segment = v
				continue
			case "channel":
				opt.channel = v
				continue
			case "root":
				opt.root = v
				continue
			case "anc":
				opt.ancFile = v
				continue
			}
		}
		exit.Log("Unrecognized line in config file: " + ls)
	}
}

// dataRoot resolves the data tree root.  The -r option wins, then a
// root= config line, then the environment.
func dataRoot(cl *commandLine, opt *options) string {
	switch {
	case cl.root != "":
		return cl.root
	case opt.root != "":
		return opt.root
	}
	if r := os.Getenv(rootEnv); r != "" {
		return r
	}
	exit.Log("No data root.  Give -r, set " + rootEnv +
		", or put root= in the config file.")
	return ""
}

func blockCount(root string) int {
	m, _ := filepath.Glob(filepath.Join(root, "orbit*"))
	n := 0
	for _, p := range m {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			n++
		}
	}
	return n
}

func printHeadings(opt *options) {
	if !opt.headings {
		return
	}
	fmt.Println(versionString)
	fmt.Print("Segment      UTC start           Ch  Version  Int Sw  Mirror deg  Relay")
	if opt.day {
		fmt.Print(" Day  ")
	}
	if opt.rms {
		fmt.Print("   RMS")
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println(`
Iuvs surveys MAVEN/IUVS level 1b data products on a local data tree.
For each orbit surveyed it locates the latest version of each product,
loads the files, and prints one line per file with observation and
engineering summary, followed by an orbit summary line.

Config file keywords:
   headings
   noheadings
   rms
   norms
   day
   noday
   gaps
   nogaps
   segment=<name>
   channel=<name>
   root=<path>
   anc=<path>

Observation segments:`)
	for _, s := range fname.SList {
		fmt.Printf("   %-12s %s\n", s.Name, s.Heading)
	}
	fmt.Println("\nDetector channels:")
	for _, c := range fname.ChList {
		fmt.Printf("   %-4s %s\n", c.Name, c.Heading)
	}
	fmt.Println(`
For full documentation:
   godoc github.com/maven-iuvs/iuvs`)
}
