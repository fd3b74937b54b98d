/*
Command swathgen generates a synthetic level 1b data tree for testing.

Real IUVS data trees run to terabytes and are not redistributable in
bulk.  swathgen builds small trees of synthetic files with the same
layout, naming, and HDU structure, so the iuvs surveying machinery can
be exercised without any flight data at hand.

Usage

Usage:

   swathgen [options] <scenario-file>
   swathgen -v

Options:

   -r <root>   output tree root, overriding the scenario

The scenario file is YAML.  A minimal scenario names one orbit:

   orbits:
     - orbit: 3453

A fuller one controls the tree in detail:

   seed: 42
   root: tree
   orbits:
     - orbit: 3453
       segment: apoapse
       channel: muv
       start: 2016-07-08T05:13:56Z
       files: 3
       spacing: 5m
       integrations: 60
       spatial: 7
       spectral: 19
       cadence: 1
       relay: false
       dayside: true
       jitter: 0
       gzip: false
       versions: [12, 13]

Each orbits entry expands to the given number of files, evenly spaced
in time, written into the proper orbit block directory under the root.
The versions list writes one file per listed processing version of
each observation, which exercises latest version discovery in iuvs.
Unset fields take the nominal dayside apoapse values.  Generation is
deterministic for a given scenario.

-------------
Public domain.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/soniakeys/exit"
	"gopkg.in/yaml.v3"

	"github.com/maven-iuvs/iuvs/internal/synth"
)

const versionString = "swathgen version 0.2"
const copyrightString = "Public domain."

type scenario struct {
	Seed   uint64  `yaml:"seed"`
	Root   string  `yaml:"root"`
	Orbits []entry `yaml:"orbits"`
}

type entry struct {
	Orbit        int       `yaml:"orbit"`
	Segment      string    `yaml:"segment"`
	Channel      string    `yaml:"channel"`
	Start        time.Time `yaml:"start"`
	Files        int       `yaml:"files"`
	Spacing      string    `yaml:"spacing"`
	Integrations int       `yaml:"integrations"`
	Spatial      int       `yaml:"spatial"`
	Spectral     int       `yaml:"spectral"`
	Cadence      float64   `yaml:"cadence"`
	Relay        bool      `yaml:"relay"`
	Dayside      *bool     `yaml:"dayside"`
	Jitter       float64   `yaml:"jitter"`
	Gzip         bool      `yaml:"gzip"`
	Versions     []int     `yaml:"versions"`
}

// expand turns one scenario entry into the parameter list of the files
// it stands for.
func (e *entry) expand(seed uint64) ([]synth.Params, error) {
	spacing := 5 * time.Minute
	if e.Spacing != "" {
		var err error
		if spacing, err = time.ParseDuration(e.Spacing); err != nil {
			return nil, err
		}
	}
	files := e.Files
	if files == 0 {
		files = 1
	}
	versions := e.Versions
	if len(versions) == 0 {
		versions = []int{13}
	}
	p := synth.Nominal(e.Orbit, 0)
	if e.Segment != "" {
		p.Segment = e.Segment
	}
	if e.Channel != "" {
		p.Channel = e.Channel
	}
	if !e.Start.IsZero() {
		p.Time = e.Start
	}
	if e.Integrations > 0 {
		p.NInt = e.Integrations
	}
	if e.Spatial > 0 {
		p.NSpatial = e.Spatial
	}
	if e.Spectral > 0 {
		p.NSpectral = e.Spectral
	}
	if e.Cadence > 0 {
		p.Cadence = e.Cadence
	}
	p.Relay = e.Relay
	p.Dayside = e.Dayside == nil || *e.Dayside
	p.JitterSec = e.Jitter
	p.Gzip = e.Gzip

	var ps []synth.Params
	for i := 0; i < files; i++ {
		q := p
		q.Time = p.Time.Add(time.Duration(i) * spacing)
		for _, v := range versions {
			r := q
			r.Version = v
			r.Seed = seed + uint64(i)*100 + uint64(v)
			ps = append(ps, r)
		}
	}
	return ps, nil
}

func main() {
	defer exit.Handler()
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
   swathgen [options] <scenario-file>
   swathgen -v

Options:
   -r <root>   output tree root, overriding the scenario

For full documentation:
   go doc github.com/maven-iuvs/iuvs/swathgen
`)
	}
	root := flag.String("r", "", "output tree root")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	b, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		exit.Log(err)
	}
	var sc scenario
	if err = yaml.Unmarshal(b, &sc); err != nil {
		exit.Log(err)
	}
	if *root != "" {
		sc.Root = *root
	}
	if sc.Root == "" {
		sc.Root = "."
	}
	if len(sc.Orbits) == 0 {
		exit.Log("Scenario lists no orbits.")
	}

	// expand the scenario to a work list
	var work []synth.Params
	for i := range sc.Orbits {
		ps, err := sc.Orbits[i].expand(sc.Seed + uint64(i)*100000)
		if err != nil {
			exit.Log(fmt.Sprintf("orbits[%d]: %v", i, err))
		}
		work = append(work, ps...)
	}

	// a source of file parameters
	pCh := make(chan synth.Params)
	go func() {
		for _, p := range work {
			pCh <- p
		}
		close(pCh)
	}()

	// start a number of writers in parallel.
	// each returns per file results on resCh
	resCh := make(chan error)
	nProc := runtime.GOMAXPROCS(0)
	if nProc > len(work) {
		nProc = len(work)
	}
	for i := 0; i < nProc; i++ {
		go func() {
			for p := range pCh {
				_, err := synth.WriteBlock(sc.Root, p)
				resCh <- err
			}
		}()
	}

	nl := false
	for n := range work {
		if err := <-resCh; err != nil {
			if nl {
				fmt.Println()
			}
			exit.Log(err)
		}
		if (n+1)%25 == 0 {
			fmt.Print(".")
			nl = true
		}
	}
	if nl {
		fmt.Println()
	}
	fmt.Println(len(work), "files written under", sc.Root)
}
