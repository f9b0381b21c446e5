package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/whiteboard-tools-mcp/internal/config"
	"github.com/ironsheep/whiteboard-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("whiteboard-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	closer, err := config.SetupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup failed: %v\n", err)
		os.Exit(2)
	}
	defer closer.Close()

	if len(os.Args) > 1 && os.Args[1] == "enhance" {
		if err := runEnhance(os.Args[2:], cfg, os.Stdout, os.Stderr); err != nil {
			closer.Close()
			log.Fatalf("enhance: %v", err)
		}
		return
	}

	if cfg.Debug() {
		log.Printf("Whiteboard MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		closer.Close()
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("whiteboard-tools-mcp - MCP server that cleans up photos of whiteboards")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  whiteboard-tools-mcp [options]            Run the MCP server on stdin/stdout")
	fmt.Println("  whiteboard-tools-mcp enhance [flags]      Clean up one photo from the command line")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Run 'whiteboard-tools-mcp enhance -h' for the enhance flags.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug         Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=<path>         Log to a rotating file instead of stderr\n", config.EnvLogFile)
	fmt.Printf("  %s=<n>         Batch worker limit (default: CPU count)\n", config.EnvConcurrency)
	fmt.Printf("  %s=<1-100>    JPEG output quality (default %d)\n", config.EnvJPEGQuality, config.DefaultJPEGQuality)
	fmt.Printf("  %s=<lang>     OCR language (default %s)\n", config.EnvOCRLanguage, config.DefaultOCRLanguage)
	fmt.Println()
	fmt.Println("In server mode the program communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
