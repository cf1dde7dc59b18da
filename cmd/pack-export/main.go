package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shacgolf/shac-golf/audio"
	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/logger"
)

func main() {
	var (
		pack       = flag.String("pack", "", "pack to export (default: all)")
		out        = flag.String("out", "packs", "output directory")
		sampleRate = flag.Int("rate", constant.AudioSampleRate, "sample rate")
		sf2        = flag.String("sf2", "", "render the standard note list from this SoundFont as pack \"soundfont\"")
		list       = flag.Bool("list", false, "list packs and sounds, write nothing")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(*logLevel, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	if *sampleRate <= 0 {
		fmt.Fprintln(os.Stderr, "Sample rate must be positive")
		os.Exit(1)
	}

	catalog := audio.NewStandardCatalog(*sampleRate)

	if *sf2 != "" {
		f, err := os.Open(*sf2)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open soundfont: %v\n", err)
			os.Exit(1)
		}
		catalog.RegisterPack(audio.SoundFontPack("soundfont", f, audio.StandardNotes(), *sampleRate,
			constant.EnhancedPackDuration, catalog.Fallback(), log))
		f.Close()
	}

	names := catalog.Packs()
	if *pack != "" {
		if _, ok := catalog.Pack(*pack); !ok {
			fmt.Fprintf(os.Stderr, "Unknown pack %q (have %v)\n", *pack, names)
			os.Exit(1)
		}
		names = []string{*pack}
	}

	failed := 0
	for _, name := range names {
		p, _ := catalog.Pack(name)
		if *list {
			fmt.Printf("%s: %s\n", p.Name, p.Description)
			for _, s := range p.Names() {
				buf, _ := p.Sound(s)
				fmt.Printf("  %-18s %v  %d ch  peak %.3f\n", s, buf.Duration(), buf.NumChannels(), buf.Peak())
			}
			continue
		}

		dir := filepath.Join(*out, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", dir, err)
			os.Exit(1)
		}
		for _, s := range p.Names() {
			buf, _ := p.Sound(s)
			path := filepath.Join(dir, s+".wav")
			if err := writeWAV(path, buf); err != nil {
				log.Error("export failed", "pack", name, "sound", s, "err", err)
				failed++
				continue
			}
			log.Info("exported", "pack", name, "sound", s, "path", path)
		}
	}

	if *list {
		fmt.Println("soundfont keys:")
		for _, n := range audio.StandardNotes() {
			fmt.Printf("  %-18s key %3d  %8.2f Hz\n", n.Name, n.Key, audio.NoteFreq(int(n.Key)))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeWAV(path string, buf *audio.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.EncodeWAV(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
