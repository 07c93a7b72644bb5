package main

import (
	"HaexVault/internal/config"
	"HaexVault/internal/repo"
	"HaexVault/internal/service"
	"context"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	groupRepo := repo.NewGroupRepository(db)
	membershipRepo := repo.NewMembershipRepository(db)
	itemRepo := repo.NewItemRepository(db)

	groupService, err := service.NewGroupService(groupRepo, membershipRepo, itemRepo, sugar)
	if err != nil {
		sugar.Fatalw("failed to construct group service", "error", err)
	}

	resolver, err := service.NewResolver(itemRepo, groupRepo, cfg.ResolveDepth)
	if err != nil {
		sugar.Fatalw("failed to construct resolver", "error", err)
	}

	cloneDefaults := service.DefaultCloneOptions()
	cloneDefaults.TitleSuffix = cfg.CloneSuffix
	cloner, err := service.NewCloneService(groupService, itemRepo, membershipRepo, cloneDefaults, sugar)
	if err != nil {
		sugar.Fatalw("failed to construct clone service", "error", err)
	}

	ctx := context.Background()
	if _, err := groupService.EnsureTrash(ctx); err != nil {
		sugar.Fatalw("failed to ensure trash group", "error", err)
	}
	if err := groupService.Sync(ctx); err != nil {
		sugar.Fatalw("failed to sync group hierarchy", "error", err)
	}

	sugar.Infow("vault ready",
		"dsn", cfg.DatabaseDSN,
		"groups", len(groupService.Snapshot()),
		"resolveDepth", resolver.MaxDepth(),
		"cloneSuffix", cloner.Defaults().TitleSuffix,
	)
}
