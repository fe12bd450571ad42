package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lexperience/backend/internal/config"
	"github.com/lexperience/backend/internal/migration"
	"github.com/lexperience/backend/internal/observability"
	"github.com/lexperience/backend/internal/server"
	"github.com/lexperience/backend/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		// Functional Domains
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
