package main

import (
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/214zzl995/subtitle-fast/pkg/hwdecode"
	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
	"github.com/214zzl995/subtitle-fast/pkg/sheet"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Report duration, frame rate, and total frame count"),
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one input file")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			decoder, err := newDecoder(cfg)
			if err != nil {
				return err
			}

			result, err := decoder.ProbeTotalFrames(c.Args().First())
			if err != nil {
				return err
			}
			printProbe(result)
			return nil
		},
	}
}

func printProbe(r ports.ProbeResult) {
	if r.Width > 0 && r.Height > 0 {
		fmt.Printf("size:       %dx%d\n", r.Width, r.Height)
	}
	if !math.IsNaN(r.DurationSeconds) {
		fmt.Printf("duration:   %.3f s\n", r.DurationSeconds)
	}
	if !math.IsNaN(r.FPS) {
		fmt.Printf("frame rate: %.3f fps\n", r.FPS)
	}
	if r.HasFrameCount {
		fmt.Printf("frames:     %d\n", r.FrameCount)
	} else {
		fmt.Println(l10n.T("frames:     unknown (metadata unavailable)"))
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     l10n.T("Decode frames and write them as PNG files"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   l10n.T("Output directory for PNG frames"),
			},
			&cli.Uint64Flag{
				Name:  "start",
				Usage: l10n.T("Start decoding at this frame index"),
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 0,
				Usage: l10n.T("Stop after this many frames (0 = all)"),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one input file")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			decoder, err := newDecoder(cfg)
			if err != nil {
				return err
			}
			outDir := c.String("output")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			opts := hwdecode.DecodeOptions{}
			if c.IsSet("start") {
				start := c.Uint64("start")
				opts.StartFrame = &start
			}
			limit := c.Int("limit")

			written := 0
			var callbackErr error
			err = decoder.Decode(c.Args().First(), opts, func(frame *ports.Frame) bool {
				img, err := nv12.ToYCbCr(frame)
				if err != nil {
					callbackErr = err
					return false
				}
				name := filepath.Join(outDir, fmt.Sprintf("frame_%06d.png", frame.Index))
				f, err := os.Create(name)
				if err != nil {
					callbackErr = err
					return false
				}
				if err := png.Encode(f, img); err != nil {
					f.Close()
					callbackErr = err
					return false
				}
				f.Close()
				written++
				return limit == 0 || written < limit
			})
			if err != nil {
				return err
			}
			if callbackErr != nil {
				return callbackErr
			}
			fmt.Println(l10n.F("Wrote %d frames to %s", written, outDir))
			return nil
		},
	}
}

func sheetCommand() *cli.Command {
	return &cli.Command{
		Name:      "sheet",
		Usage:     l10n.T("Render decoded frames into a contact sheet"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    l10n.T("Output PNG path"),
			},
			&cli.IntFlag{
				Name:  "columns",
				Value: 4,
				Usage: l10n.T("Number of columns"),
			},
			&cli.IntFlag{
				Name:  "every",
				Value: 30,
				Usage: l10n.T("Sample every Nth frame"),
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 16,
				Usage: l10n.T("Maximum number of cells"),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one input file")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			decoder, err := newDecoder(cfg)
			if err != nil {
				return err
			}

			every := c.Int("every")
			if every < 1 {
				every = 1
			}
			limit := c.Int("limit")

			var cells []sheet.Cell
			var callbackErr error
			seen := 0
			err = decoder.Decode(c.Args().First(), hwdecode.DecodeOptions{}, func(frame *ports.Frame) bool {
				defer func() { seen++ }()
				if seen%every != 0 {
					return true
				}
				img, err := nv12.ToYCbCr(frame)
				if err != nil {
					callbackErr = err
					return false
				}
				cells = append(cells, sheet.Cell{
					Image:            img,
					Index:            frame.Index,
					TimestampSeconds: frame.TimestampSeconds,
				})
				return limit == 0 || len(cells) < limit
			})
			if err != nil {
				return err
			}
			if callbackErr != nil {
				return callbackErr
			}

			opts := sheet.DefaultOptions()
			opts.Columns = c.Int("columns")
			img, err := sheet.Render(cells, opts)
			if err != nil {
				return err
			}
			f, err := os.Create(c.String("output"))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return err
			}
			fmt.Println(l10n.F("Wrote contact sheet with %d cells to %s", len(cells), c.String("output")))
			return nil
		},
	}
}
