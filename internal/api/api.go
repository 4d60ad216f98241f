package api

import (
	"group-bridge/internal/config"
	"group-bridge/internal/manager"
	"group-bridge/internal/storage"
)

type API struct {
	Manager  *manager.GroupManager
	Groups   *storage.GroupRepo
	Agencies *storage.AgencyRepo
	Cfg      *config.Config
}

func NewAPI(mgr *manager.GroupManager, groups *storage.GroupRepo, agencies *storage.AgencyRepo, cfg *config.Config) *API {
	return &API{
		Manager:  mgr,
		Groups:   groups,
		Agencies: agencies,
		Cfg:      cfg,
	}
}
