// Command overlap loads a YAML scene, reports every overlapping pair and optionally draws the scene.
//
// Settings come from flags, then the OVERLAP_SCENE and OVERLAP_LOG_LEVEL environment variables
// (a .env file in the working directory is loaded first), then the scene file itself.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/overlap"
	"github.com/akmonengine/overlap/debugdraw"
	"github.com/akmonengine/overlap/logger"
	"github.com/akmonengine/overlap/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	scenePath string
	logLevel  string
	draw      bool
	scale     float64
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("overlap", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.scenePath, "scene", os.Getenv("OVERLAP_SCENE"), "path of the YAML scene (env OVERLAP_SCENE)")
	fs.StringVar(&opts.logLevel, "log-level", os.Getenv("OVERLAP_LOG_LEVEL"), "debug, info, warn or error (env OVERLAP_LOG_LEVEL)")
	fs.BoolVar(&opts.draw, "draw", false, "draw the scene in the terminal until a key is pressed")
	fs.Float64Var(&opts.scale, "scale", 4, "columns per world unit when drawing")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.scenePath == "" {
		return opts, errors.New("no scene given, use -scene or OVERLAP_SCENE")
	}
	return opts, nil
}

func main() {
	godotenv.Load()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	config, err := scene.LoadFile(opts.scenePath)
	if err != nil {
		return err
	}

	level := opts.logLevel
	if level == "" {
		level = config.Settings.LogLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	world, err := config.Build(log)
	if err != nil {
		return err
	}
	log.Info("scene loaded", zap.String("path", opts.scenePath), zap.Int("bodies", len(world.Bodies)))

	var renderer *debugdraw.Renderer
	var screen tcell.Screen
	if opts.draw {
		screen, err = tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		renderer = debugdraw.New(screen, opts.scale)
		world.AddObserver(renderer)
	}

	contacts, err := world.Step()
	if err != nil {
		log.Warn("some pairs could not be tested", zap.Error(err))
	}
	printContacts(stdout, contacts)

	if renderer != nil {
		renderer.Draw(world.Bodies)
		waitForKey(screen)
	}

	return nil
}

func printContacts(w io.Writer, contacts []overlap.Contact) {
	for _, c := range contacts {
		if c.Result.Method == overlap.MethodSAT {
			fmt.Fprintf(w, "%s %s %s depth=%.4f mtv=(%.4f, %.4f)\n",
				c.BodyA.Name, c.BodyB.Name, c.Result.Method,
				c.Result.PenetrationDepth, c.Result.TranslationVector.X(), c.Result.TranslationVector.Y())
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", c.BodyA.Name, c.BodyB.Name, c.Result.Method)
	}
}

func waitForKey(screen tcell.Screen) {
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
