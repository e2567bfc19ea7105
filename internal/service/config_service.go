package service

import (
	"context"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"
)

// DrawerReconfigurer is notified when drawer-related settings change so the
// running drawer service can pick them up without a restart.
type DrawerReconfigurer interface {
	Reconfigure(cfg *model.AppConfig)
}

type ConfigService interface {
	Get(ctx context.Context) (*dto.ConfigResponse, error)
	Patch(ctx context.Context, req dto.PatchConfigRequest) (*dto.ConfigResponse, error)
}

type configService struct {
	repo   repository.AppConfigRepository
	drawer DrawerReconfigurer
}

func NewConfigService(repo repository.AppConfigRepository, drawer DrawerReconfigurer) ConfigService {
	return &configService{repo: repo, drawer: drawer}
}

func (s *configService) Get(ctx context.Context) (*dto.ConfigResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return configToResponse(cfg), nil
}

func (s *configService) Patch(ctx context.Context, req dto.PatchConfigRequest) (*dto.ConfigResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		cfg.BusinessName = *req.BusinessName
	}
	if req.VarianceAlertThreshold != nil {
		cfg.VarianceAlertThreshold = *req.VarianceAlertThreshold
	}
	if req.AlertEmail != nil {
		cfg.AlertEmail = req.AlertEmail
	}
	if req.DrawerPort != nil {
		cfg.DrawerPort = req.DrawerPort
	}
	if req.DrawerBaudRate != nil {
		cfg.DrawerBaudRate = *req.DrawerBaudRate
	}
	if req.DrawerPulseMs != nil {
		cfg.DrawerPulseMs = *req.DrawerPulseMs
	}
	if req.DrawerMaxOpenMs != nil {
		cfg.DrawerMaxOpenMs = *req.DrawerMaxOpenMs
	}
	if req.DrawerSensorEnabled != nil {
		cfg.DrawerSensorEnabled = *req.DrawerSensorEnabled
	}
	if req.DrawerSensorPollMs != nil {
		cfg.DrawerSensorPollMs = *req.DrawerSensorPollMs
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	if s.drawer != nil {
		s.drawer.Reconfigure(cfg)
	}
	return configToResponse(cfg), nil
}

func configToResponse(c *model.AppConfig) *dto.ConfigResponse {
	return &dto.ConfigResponse{
		BusinessName:           c.BusinessName,
		VarianceAlertThreshold: c.VarianceAlertThreshold,
		AlertEmail:             c.AlertEmail,
		DrawerPort:             c.DrawerPort,
		DrawerBaudRate:         c.DrawerBaudRate,
		DrawerPulseMs:          c.DrawerPulseMs,
		DrawerMaxOpenMs:        c.DrawerMaxOpenMs,
		DrawerSensorEnabled:    c.DrawerSensorEnabled,
		DrawerSensorPollMs:     c.DrawerSensorPollMs,
	}
}
