package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"timeclock/internal/apiclient"
	"timeclock/internal/clientconfig"
	"timeclock/internal/crm"
	"timeclock/internal/discover"
	"timeclock/internal/ui"
)

func main() {
	serverFlag := flag.String("server", "", "server address (host:port), skips discovery")
	crmCheck := flag.Bool("crm-check", false, "verify the stored CRM connection and exit")
	adminPassword := flag.String("password", "", "admin password, used with -crm-check")
	flag.Parse()

	cfgPath, err := clientconfig.Path()
	if err != nil {
		log.Printf("warning: %v", err)
	}
	cfg, err := clientconfig.Load(cfgPath)
	if err != nil {
		log.Printf("warning: %v", err)
	}

	addr, err := resolveServer(*serverFlag, cfg)
	if err != nil {
		log.Fatalf("no server: %v (pass -server host:port)", err)
	}
	if addr != cfg.ServerAddr && cfgPath != "" {
		cfg.ServerAddr = addr
		if err := clientconfig.Save(cfgPath, cfg); err != nil {
			log.Printf("warning: save config: %v", err)
		}
	}

	client := apiclient.New(addr)

	if *crmCheck {
		if err := runCRMCheck(client, *adminPassword); err != nil {
			log.Fatalf("crm check failed: %v", err)
		}
		return
	}

	program := tea.NewProgram(ui.New(ui.Options{
		Client:     client,
		Config:     cfg,
		ConfigPath: cfgPath,
	}))
	if _, err := program.Run(); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}

// resolveServer prefers the explicit flag, then the saved address if it still
// answers, then a LAN discovery pass.
func resolveServer(flagAddr string, cfg clientconfig.Config) (string, error) {
	if flagAddr != "" {
		return flagAddr, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.ServerAddr != "" {
		if _, err := discover.Probe(ctx, cfg.ServerAddr); err == nil {
			return cfg.ServerAddr, nil
		}
		log.Printf("saved server %s not answering, scanning...", cfg.ServerAddr)
	}
	return discover.Find(ctx)
}

// runCRMCheck pulls the stored CRM credentials from the server, opens an
// XML-RPC session against the CRM and prints the pipeline as proof of life.
func runCRMCheck(client *apiclient.Client, password string) error {
	if password == "" {
		return fmt.Errorf("-crm-check needs -password")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Login(ctx, password); err != nil {
		return err
	}
	creds, err := client.CRMCredentialsGet(ctx)
	if err != nil {
		return err
	}
	if creds == nil {
		return fmt.Errorf("no CRM credentials saved on the server")
	}

	conn, err := crm.Connect(creds.URL, creds.DB, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	defer conn.Close()

	stages, err := conn.Stages()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Connected to %s (db %s)\n", creds.URL, creds.DB)
	fmt.Fprintln(os.Stdout, "Pipeline stages:")
	for _, stage := range stages {
		fmt.Fprintf(os.Stdout, "  %d  %s\n", stage.ID, stage.Name)
	}

	leads, err := conn.Leads(10)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Latest leads (%d):\n", len(leads))
	for _, lead := range leads {
		fmt.Fprintf(os.Stdout, "  %-30s %-14s %s\n", lead.Name, lead.Phone, lead.Stage)
	}
	return nil
}
