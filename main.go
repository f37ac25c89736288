package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verdant/internal/config"
	"verdant/internal/garden"
	"verdant/internal/gardener"
	"verdant/internal/httpmw"
	"verdant/internal/ledger"
	"verdant/internal/plant"
	"verdant/internal/server"
	"verdant/internal/telemetry"
)

// adminAccount is the ledger wallet the escrow sweep pays into.
const adminAccount = "g_admin"

func main() {
	logger := log.New(os.Stdout, "", 0)

	srv, err := config.ServerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	balance, err := config.Load(filepath.Join(srv.DataDir, srv.BalanceFile))
	if err != nil {
		log.Fatal(err)
	}

	var plants plant.Repository
	if srv.UseDB {
		if err := os.MkdirAll(filepath.Dir(srv.DBPath), 0o755); err != nil {
			log.Fatal(err)
		}
		repo, err := plant.NewGormRepo(srv.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		plants = repo
	} else {
		plants = plant.NewMemoryRepo()
	}

	clock := garden.RealClock{}
	bootNow := clock.Now()

	led := ledger.NewMemory()
	led.Open(adminAccount, bootNow)
	telemetry.RegisterEscrowGauge(func() int64 { return int64(led.Escrow()) })

	events := telemetry.NewMemoryRepository()
	hub := server.NewHub(logger)
	gardeners := gardener.NewService(gardener.NewMemoryRepo(), srv.AdminToken)

	app := &server.App{
		Engine: garden.Engine{
			Plants:       plants,
			Ledger:       led,
			Events:       events,
			Notify:       hub,
			Clock:        clock,
			Balance:      balance,
			AdminAccount: adminAccount,
		},
		Gardeners: gardeners,
		Ledger:    led,
		Events:    events,
		Hub:       hub,
		BootNow:   bootNow,
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, app)
	server.RegisterAdminUI(mux, rr, app, srv.Port)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
	)

	addr := ":" + srv.Port
	fmt.Printf("verdant listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
