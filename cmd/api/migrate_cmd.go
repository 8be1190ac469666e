package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-api/internal/infrastructure/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Administra el esquema del store configurado",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store, log logFn) error {
				applied, err := migrations.Up(ctx, st.db, st.dialect)
				if err != nil {
					return err
				}
				log("migraciones aplicadas", "versions", applied)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revierte la última migración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store, log logFn) error {
				v, err := migrations.Down(ctx, st.db, st.dialect)
				if err != nil {
					return err
				}
				log("migración revertida", "version", v)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra la versión actual y las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store, log logFn) error {
				current, pending, err := migrations.Status(ctx, st.db, st.dialect)
				if err != nil {
					return err
				}
				log("estado del esquema", "current", current, "pending", pending)
				return nil
			})
		},
	})
	return cmd
}

type logFn func(msg string, kv ...any)

func withStore(ctx context.Context, fn func(context.Context, *store, logFn) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.close()

	l := log.Component("migrate").With().Str("driver", string(st.dialect)).Logger()
	return fn(ctx, st, func(msg string, kv ...any) {
		l.Info().Fields(kv).Msg(msg)
	})
}
