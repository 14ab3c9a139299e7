// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/internal/seed"
	"github.com/neonreach/neonreach/internal/store"
	"github.com/neonreach/neonreach/pkg/errutil"
)

var _ = Describe("PostgresStore", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
		migrator  *store.Migrator
		pg        *store.PostgresStore
		state     *game.State
	)

	BeforeAll(func() {
		ctx = context.Background()

		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("neonreach"),
			postgres.WithUsername("neon"),
			postgres.WithPassword("neon"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		migrator, err = store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())

		pg, err = store.Connect(ctx, connStr, store.DefaultConnectOptions())
		Expect(err).NotTo(HaveOccurred())

		f, err := seed.Default()
		Expect(err).NotTo(HaveOccurred())
		e := game.New(game.Config{Logger: logging.Discard()})
		_, err = seed.Apply(ctx, e, f)
		Expect(err).NotTo(HaveOccurred())
		state = e.ExportState()
	})

	AfterAll(func() {
		if pg != nil {
			pg.Close()
		}
		if migrator != nil {
			Expect(migrator.Close()).To(Succeed())
		}
		if container != nil {
			Expect(container.Terminate(ctx)).To(Succeed())
		}
	})

	It("reports a missing table before migrations run", func() {
		err := pg.Save(ctx, "state", state)
		Expect(errutil.HasCode(err, store.CodeNotMigrated)).To(BeTrue(), "got %v", err)
	})

	It("walks the migration chain", func() {
		Expect(migrator.Up()).To(Succeed())
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty).To(BeFalse())
		Expect(version).To(BeNumerically(">=", 1))

		Expect(migrator.Steps(-1)).To(Succeed())
		back, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(version - 1))

		Expect(migrator.Up()).To(Succeed())
		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("round-trips a snapshot", func() {
		Expect(pg.Save(ctx, "state", state)).To(Succeed())

		loaded, err := pg.Load(ctx, "state")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Factions.Reputations).To(Equal(state.Factions.Reputations))
		Expect(loaded.Factions.Territories).To(Equal(state.Factions.Territories))

		e := game.New(game.Config{Logger: logging.Discard()})
		Expect(e.ImportState(ctx, loaded, false)).To(Succeed())
		Expect(e.Factions().GetAllReputations()).To(HaveLen(len(state.Factions.Factions)))
	})

	It("overwrites by name and lists entries", func() {
		Expect(pg.Save(ctx, "autosave", state)).To(Succeed())
		Expect(pg.Save(ctx, "autosave", state)).To(Succeed())

		entries, err := pg.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Name).To(Equal("autosave"))
		Expect(entries[1].Version).To(Equal(game.StateVersion))
	})

	It("deletes snapshots", func() {
		removed, err := pg.Delete(ctx, "autosave")
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(BeTrue())

		_, err = pg.Load(ctx, "autosave")
		Expect(errutil.HasCode(err, store.CodeSnapshotNotFound)).To(BeTrue())
	})
})
