package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"verdant/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "snapshot":
		if err := cmdSnapshot(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "snapshot failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	case "drill":
		if err := cmdDrill(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "drill failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to the garden data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "verdant-"+ts+".tar.gz")
	}

	if err := ops.Snapshot(*dataDir, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input snapshot archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.Restore(*archive, *target)
}

// drill runs a snapshot and restore end to end and checks the restored
// copy matches the source, so backups get exercised before they matter.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to the garden data directory")
	workDir := fs.String("work-dir", os.TempDir(), "workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "verdant-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "verdant-drill-restore-"+ts)

	if err := ops.Snapshot(*dataDir, archive); err != nil {
		return err
	}
	if err := ops.Restore(archive, restoreDir); err != nil {
		return err
	}

	srcDigest, err := ops.Digest(*dataDir)
	if err != nil {
		return err
	}
	restoredDigest, err := ops.Digest(restoreDir)
	if err != nil {
		return err
	}
	if srcDigest != restoredDigest {
		return fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoredDigest)
	}

	fmt.Println("snapshot:", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("digest:", srcDigest)
	return nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  verdant-ops snapshot --data-dir data --out backups/snap.tar.gz")
	fmt.Println("  verdant-ops restore  --archive backups/snap.tar.gz --target-dir data-restored")
	fmt.Println("  verdant-ops drill    --data-dir data --work-dir /tmp")
}
