package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/server"
	"secure-auth-app/internal/version"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "path to the configuration file (shorthand)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Fprintln(os.Stdout, version.Print())
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
