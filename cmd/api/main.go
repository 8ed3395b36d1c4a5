package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "lendbook-backend/internal/adapter/http"
	"lendbook-backend/internal/adapter/middleware"
	"lendbook-backend/internal/cachestore"
	"lendbook-backend/internal/config"
	infracache "lendbook-backend/internal/infrastructure/cache"
	"lendbook-backend/internal/infrastructure/db"
	"lendbook-backend/internal/outbox"
	"lendbook-backend/internal/remote"
	remotemongo "lendbook-backend/internal/remote/mongo"
	"lendbook-backend/internal/syncer"
	"lendbook-backend/internal/usecase/debtor"
	"lendbook-backend/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	cache, err := cachestore.Open(gdb)
	if err != nil {
		log.Fatal(err)
	}
	defer cache.Close()

	queue, err := outbox.Open(gdb)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	signal := &syncer.Signal{}
	var remoteStore remote.Store = remote.Unavailable{}
	if ms, err := remotemongo.Open(ctx, cfg.MongoURI, cfg.MongoDB, cfg.OwnerID); err != nil {
		// Starting offline is a supported state; queued writes drain
		// once connectivity is signalled.
		log.Printf("remote store unreachable at startup, starting offline: %v", err)
	} else {
		remoteStore = ms
		signal.Set(true)
		defer ms.Close(ctx)
	}

	sync := syncer.New(cache, queue, remoteStore, signal.Reachable)
	sync.ObserveConnectivity(ctx)

	loanUC := loan.NewUsecase(sync.Loans(), sync.Debtors())
	debtorUC := debtor.NewUsecase(sync.Debtors(), sync.Loans())

	h := httpadp.NewHandler(sync, signal)
	lh := httpadp.NewLoanHandler(loanUC)
	dh := httpadp.NewDebtorHandler(debtorUC, loanUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	if rdb, err := infracache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB); err != nil {
		log.Printf("redis unavailable, idempotency middleware disabled: %v", err)
	} else {
		e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	}

	e.GET("/health", h.Health)
	e.POST("/sync", h.TriggerSync)
	e.PUT("/sync/online", h.SetOnline)

	e.GET("/debtors", dh.ListDebtors)
	e.POST("/debtors", dh.CreateDebtor)
	e.GET("/debtors/:debtor_id", dh.GetDebtor)
	e.PUT("/debtors/:debtor_id", dh.UpdateDebtor)
	e.DELETE("/debtors/:debtor_id", dh.DeleteDebtor)
	e.GET("/debtors/:debtor_id/loans", dh.ListDebtorLoans)

	e.GET("/loans", lh.ListLoans)
	e.POST("/loans", lh.CreateLoan)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.POST("/loans/:loan_id/payments", lh.RecordPayment)
	e.POST("/loans/:loan_id/close", lh.CloseLoan)
	e.GET("/summary", lh.Summary)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
