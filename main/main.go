package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/jetsml/jetimg"
	"github.com/jetsml/jetimg/io"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		if err := fg.log.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		extractStr, imageStr    string
		exampleConfig, profFile string
	)
	vars := map[string]*string{
		"Extract":       &extractStr,
		"Image":         &imageStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&jetimg.NumCores, "Threads", runtime.NumCPU(),
		"Number of threads used when averaging. Default is the number of "+
			"logical cores.",
	)
	flag.StringVar(
		&extractStr, "Extract", "",
		"Configuration file for [Extract] mode, which writes the final-state "+
			"particles of the hard process in a HepMC file to a table.",
	)
	flag.StringVar(
		&imageStr, "Image", "",
		"Configuration file for [Image] mode, which renders a table written "+
			"by [Extract] mode into an image grid.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Extract' and 'Image'.",
	)
	flag.StringVar(
		&profFile, "ProfileFile", "",
		"Location to write a CPU profile to. Default is no profiling.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	fg := &FileGroup{}
	defer fg.Close()
	if profFile != "" {
		fg.prof, err = os.Create(profFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := pprof.StartCPUProfile(fg.prof); err != nil {
			log.Fatal(err.Error())
		}
	}

	switch modeName {
	case "Extract":
		con, err := io.ReadExtractConfig(extractStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		setLogFile(fg, con.LogFile)
		if err := jetimg.Extract(con); err != nil {
			log.Fatal(err.Error())
		}

	case "Image":
		con, err := io.ReadImageConfig(imageStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		setLogFile(fg, con.LogFile)
		if err := jetimg.Render(con); err != nil {
			log.Fatal(err.Error())
		}

	case "ExampleConfig":
		switch strings.ToLower(exampleConfig) {
		case "extract":
			fmt.Println(io.ExampleExtractFile)
		case "image":
			fmt.Println(io.ExampleImageFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Extract' and 'Image'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// setLogFile redirects log output to fname, if it is set.
func setLogFile(fg *FileGroup, fname string) {
	if fname == "" {
		return
	}
	f, err := os.Create(fname)
	if err != nil {
		log.Fatal(err.Error())
	}
	fg.log = f
	log.SetOutput(f)
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but jetimg only accepts "+
				"one mode flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}
