package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/config"
	"github.com/vitalis-saude/macro-periodos/backend/internal/repository"
	"github.com/vitalis-saude/macro-periodos/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operação a executar (1: unidades de exemplo, 2: médicos de exemplo, 3: macro períodos aleatórios)")
	flag.IntVar(&n, "n", 5, "quantidade de registros a inserir")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("não foi possível carregar a configuração", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("não foi possível criar o pool de conexões", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open só cria o pool, não conecta; o ping valida a conexão
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("não foi possível conectar ao banco de dados", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("nenhuma operação especificada")
	case 1:
		seed.SeedUnits(repo)
	case 2:
		seed.SeedDoctors(repo)
	case 3:
		if n <= 0 {
			slog.Error("informe uma quantidade válida de macro períodos")
			return
		}
		seed.SeedMacroPeriods(repo, n)
	default:
		slog.Error("operação inválida")
	}
}
