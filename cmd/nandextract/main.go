package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bodgit/nandextract/nand"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var fs = afero.NewOsFs()

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// outputRoot derives the extraction target directory from the image
// path by stripping its extension.
func outputRoot(image string) string {
	return strings.TrimSuffix(image, filepath.Ext(image))
}

func extractNAND(logger *zap.SugaredLogger, image, directory string, showProgress bool) error {
	img, err := nand.Open(image, fs)
	if err != nil {
		return err
	}
	defer img.Close()

	logger.Infof("opened %s: %s/%s dump, cluster payload %d bytes",
		image, img.Family(), img.Variant(), img.Geometry().ClusterPayload)

	var w nand.Writer = nand.NewOSWriter(fs)

	if showProgress {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		w = progressWriter{w, bar}
	}

	return nand.NewWalker(img, w, logger).Walk(directory)
}

// progressWriter wraps a Writer and advances a progress bar for every
// file written.
type progressWriter struct {
	nand.Writer
	bar *progressbar.ProgressBar
}

func (p progressWriter) WriteFile(path string, r io.Reader, length int64) error {
	err := p.Writer.WriteFile(path, r, length)
	p.bar.Add(1)
	return err
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	app := cli.NewApp()
	app.Name = "nandextract"
	app.Usage = "Wii / Wii U NAND dump extraction utility"
	app.Version = fmt.Sprintf("%s, commit %s, built at %s", version, commit, date)
	app.ArgsUsage = "IMAGE"

	app.Flags = []cli.Flag{
		&cli.PathFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Usage:   "extract to `DIRECTORY` instead of deriving it from IMAGE",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "show a progress bar while extracting",
			Value: true,
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowAppHelpAndExit(c, 1)
		}

		image := c.Args().First()

		directory := c.Path("directory")
		if directory == "" {
			directory = outputRoot(image)
		}

		return extractNAND(sugar, image, directory, c.Bool("progress"))
	}

	if err := app.Run(os.Args); err != nil {
		sugar.Error(err)
		os.Exit(1)
	}
}
