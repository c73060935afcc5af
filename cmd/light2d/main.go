package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ttacon/chalk"
	"github.com/urfave/cli"

	"chosenoffset.com/light2d/internal/app"
	"chosenoffset.com/light2d/internal/audio"
	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	ebitenrender "chosenoffset.com/light2d/internal/render/ebiten"
	"chosenoffset.com/light2d/internal/render/term"
	"chosenoffset.com/light2d/internal/scene"
	"chosenoffset.com/light2d/internal/touch"
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

var (
	sceneFlag  = cli.StringFlag{Name: "scene", Usage: "Scene file to load; required"}
	configFlag = cli.StringFlag{Name: "config", Usage: "Light config every light starts from"}
	debugFlag  = cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"}
)

func main() {
	if err := makeapp().Run(os.Args); err != nil {
		fmt.Println(chalk.Red.Color("error: " + err.Error()))
		os.Exit(1)
	}
}

func makeapp() *cli.App {
	a := cli.NewApp()
	a.Name = "light2d"
	a.Usage = "2D dynamic lights"

	a.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "Open a window on a scene",
			Flags: []cli.Flag{
				sceneFlag, configFlag, debugFlag,
				cli.BoolFlag{Name: "mute", Usage: "Disable enter and leave cues"},
			},
			Action: func(c *cli.Context) error {
				return runAction(c.String("scene"), c.String("config"), c.Bool("mute"), newLogger(c.Bool("debug")))
			},
		},
		{
			Name:  "term",
			Usage: "View a scene in the terminal",
			Flags: []cli.Flag{
				sceneFlag, configFlag, debugFlag,
				cli.Float64Flag{Name: "cell", Value: 0.5, Usage: "World units per terminal column"},
			},
			Action: func(c *cli.Context) error {
				cell := c.Float64("cell")
				return termAction(c.String("scene"), c.String("config"), cell, newLogger(c.Bool("debug")))
			},
		},
		{
			Name:  "dump",
			Usage: "Print one frame of the first light as JSON",
			Flags: []cli.Flag{
				sceneFlag, configFlag,
				cli.Float64Flag{Name: "x", Usage: "Light origin x; defaults to the scene's"},
				cli.Float64Flag{Name: "y", Usage: "Light origin y; defaults to the scene's"},
			},
			Action: func(c *cli.Context) error {
				w, err := openWorld(c.String("scene"), c.String("config"), newLogger(false))
				if err != nil {
					return err
				}
				all := w.Lights.All()
				if len(all) == 0 {
					return errors.New("scene has no lights")
				}
				id := all[0].ID
				origin := w.Origin(id)
				if c.IsSet("x") {
					origin.X = c.Float64("x")
				}
				if c.IsSet("y") {
					origin.Y = c.Float64("y")
				}
				return dumpAction(w, id, origin)
			},
		},
		{
			Name:  "list",
			Usage: "List the scenes in a directory",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "dir", Value: "data/scenes", Usage: "Directory to scan"},
			},
			Action: func(c *cli.Context) error {
				return listAction(c.String("dir"))
			},
		},
	}

	return a
}

func newLogger(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func openWorld(scenePath, configPath string, log logrus.FieldLogger, opts ...light.Option) (*app.World, error) {
	if scenePath == "" {
		return nil, errors.New("--scene is required")
	}
	var base *light.Config
	if configPath != "" {
		cfg, err := light.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		base = cfg
	}
	return app.LoadWorld(scenePath, base, log, opts...)
}

func runAction(scenePath, configPath string, mute bool, logger *logrus.Logger) error {
	var opts []light.Option
	var cues *audio.Cues
	if !mute {
		player, err := audio.InitSpeaker(audio.DefaultSampleRate)
		if err != nil {
			log.Print(chalk.Yellow.Color("audio disabled: " + err.Error()))
		} else {
			cues = audio.NewCues(player, audio.DefaultSampleRate, logger)
			opts = append(opts, light.WithNotifier(cues))
		}
	}

	w, err := openWorld(scenePath, configPath, logger, opts...)
	if err != nil {
		return err
	}

	renderer := ebitenrender.NewRenderer()
	input := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g := app.NewGame(w, renderer, screenWidth, screenHeight, logger)
	g.Input = input
	g.Touches = input
	g.Cues = cues
	g.AttachTouchManager(touch.NewManager(logger, &app.SceneLayer{Scene: w.Scene, View: &g.View}))

	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("light2d - " + w.Scene.Name)
	engine.SetWindowResizable(true)

	log.Print(chalk.Green.Color(fmt.Sprintf("running %s with %d lights", w.Scene.Name, w.Lights.Len())))
	if err := engine.RunGame(g); err != nil && errors.Cause(err) != app.ErrQuit {
		return err
	}
	log.Println("bye")
	return nil
}

func termAction(scenePath, configPath string, cell float64, logger *logrus.Logger) error {
	w, err := openWorld(scenePath, configPath, logger)
	if err != nil {
		return err
	}
	if cell <= 0 {
		return errors.Errorf("--cell must be positive, got %g", cell)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer screen.Fini()

	// Terminal cells are about twice as tall as they are wide
	v := term.NewViewer(term.NewCanvas(screen, cell, cell*2), w.Scene, w.Lights, logger)
	v.Origins = w.Origins

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := v.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func dumpAction(w *app.World, id string, origin geom.Point) error {
	snap, err := app.Dump(w, id, origin)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func listAction(dir string) error {
	entries, err := scene.ScanDirectory(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(chalk.Yellow.Color("no scenes in " + dir))
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", chalk.Cyan.Color(e.Name), e.Path)
	}
	return nil
}
