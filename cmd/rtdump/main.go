// Command rtdump builds a render tree from an HTML or XHTML file and dumps,
// fingerprints or paints it.
//
// Usage:
//
//	rtdump dump page.html
//	rtdump digest --engine xhtml page.xhtml
//	rtdump paint page.html -o page.png --fonts fonts.yaml --width 640
package main

import (
	"encoding/hex"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gogpu/rendertree"
	"github.com/gogpu/rendertree/htmlengine"
	"github.com/gogpu/rendertree/paint"
	"github.com/gogpu/rendertree/xhtmlengine"
)

const version = "0.1.0"

// CLI defines the command-line interface for rtdump.
type CLI struct {
	Verbose bool `short:"v" help:"Log tree lifecycle events to stderr"`

	Dump    DumpCmd    `cmd:"" help:"Print the node sequence of a tree"`
	Digest  DigestCmd  `cmd:"" help:"Print the BLAKE3 fingerprint of a tree"`
	Paint   PaintCmd   `cmd:"" help:"Rasterise a tree to PNG"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// env is bound into every command's Run.
type env struct {
	stdout io.Writer
	stderr io.Writer
}

// Source is a document and the engine that renders it.
type Source struct {
	File      string `arg:"" help:"HTML or XHTML file" type:"existingfile"`
	Engine    string `short:"e" enum:"auto,html,xhtml" default:"auto" help:"Engine: auto, html or xhtml"`
	NodeLimit int    `name:"node-limit" help:"Reject documents with more nodes (0 = unlimited)"`
}

func (s *Source) engine() rendertree.Engine {
	name := s.Engine
	if name == "auto" {
		switch strings.ToLower(filepath.Ext(s.File)) {
		case ".xhtml", ".xht", ".xml":
			name = "xhtml"
		default:
			name = "html"
		}
	}
	if name == "xhtml" {
		return xhtmlengine.New()
	}
	return htmlengine.New()
}

func (s *Source) build() (*rendertree.RenderTree, error) {
	f, err := os.Open(s.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rendertree.Build(s.engine(), f,
		rendertree.WithName(filepath.Base(s.File)),
		rendertree.WithNodeLimit(s.NodeLimit),
	)
}

// DumpCmd prints each node on its own line.
type DumpCmd struct {
	Source
}

func (c *DumpCmd) Run(e *env) error {
	tree, err := c.build()
	if err != nil {
		return err
	}
	defer tree.Release()

	kinds := kindColors()
	value := color.New(color.FgGreen).SprintfFunc()
	meta := color.New(color.FgYellow).SprintfFunc()

	i := 0
	for n, err := range tree.All() {
		if err != nil {
			return err
		}
		kind := kinds[n.Kind()](n.Kind().String())
		txt, terr := n.Text()
		if terr != nil {
			fmt.Fprintf(e.stdout, "%3d %s\n", i, kind)
		} else {
			weight := "normal"
			if txt.Bold {
				weight = "bold"
			}
			fmt.Fprintf(e.stdout, "%3d %s %s %s\n", i, kind,
				value("%q", txt.Value), meta("%s %gpx %s", txt.Font, txt.FontSize, weight))
		}
		i++
	}
	return nil
}

// kindColors returns the label colour of every node kind.
func kindColors() map[rendertree.Kind]func(...any) string {
	m := make(map[rendertree.Kind]func(...any) string)
	for _, k := range rendertree.Kinds() {
		switch k {
		case rendertree.KindRoot:
			m[k] = color.New(color.FgMagenta, color.Bold).SprintFunc()
		default:
			m[k] = color.New(color.FgCyan, color.Bold).SprintFunc()
		}
	}
	return m
}

// DigestCmd prints the tree fingerprint.
type DigestCmd struct {
	Source
}

func (c *DigestCmd) Run(e *env) error {
	tree, err := c.build()
	if err != nil {
		return err
	}
	defer tree.Release()

	sum, err := rendertree.Fingerprint(tree)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s  %s\n", hex.EncodeToString(sum[:]), c.File)
	return nil
}

// PaintCmd writes a PNG of the tree.
type PaintCmd struct {
	Source
	Out   string `short:"o" required:"" help:"Output PNG path" type:"path"`
	Fonts string `help:"YAML font map" type:"existingfile"`
	Width int    `default:"800" help:"Page width in pixels"`
}

func (c *PaintCmd) Run(e *env) error {
	opts := []paint.Option{paint.WithWidth(c.Width)}
	if c.Fonts != "" {
		fonts, err := paint.LoadFontMapFile(c.Fonts)
		if err != nil {
			return err
		}
		opts = append(opts, paint.WithFontMap(fonts))
	}
	p, err := paint.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	tree, err := c.build()
	if err != nil {
		return err
	}
	defer tree.Release()

	img, err := p.Paint(tree)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", c.Out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "wrote %s (%dx%d)\n", c.Out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.stdout, "rtdump %s\n", version)
	return nil
}

// run parses args and executes the selected command.
func run(args []string, stdout, stderr io.Writer, exit func(int)) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("rtdump"),
		kong.Description("Build render trees from HTML and inspect them"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Verbose {
		rendertree.SetLogger(slog.New(slog.NewTextHandler(stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
		defer rendertree.SetLogger(nil)
	}
	return ctx.Run(&env{stdout: stdout, stderr: stderr})
}

func main() {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Exit); err != nil {
		fmt.Fprintf(os.Stderr, "rtdump: %v\n", err)
		os.Exit(1)
	}
}
