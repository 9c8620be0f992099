package pagination

// Meta describes the state of the pagination window.
type Meta struct {
	Limit             int  `json:"limit"                yaml:"limit"`
	Loaded            int  `json:"loaded"               yaml:"loaded"`
	AutoLoadLimit     int  `json:"auto_load_limit"      yaml:"auto_load_limit"`
	CanLoadMore       bool `json:"can_load_more"        yaml:"can_load_more"`
	PastAutoLoadLimit bool `json:"past_auto_load_limit" yaml:"past_auto_load_limit"`
}

// NewMeta builds window metadata from the configuration, the current limit and
// the number of loaded items.
func NewMeta(cfg Config, limit, loaded int) Meta {
	return Meta{
		Limit:             limit,
		Loaded:            loaded,
		AutoLoadLimit:     cfg.AutoLoadLimit,
		CanLoadMore:       loaded >= limit,
		PastAutoLoadLimit: limit >= cfg.AutoLoadLimit,
	}
}

// ShowLoadMore reports whether a manual "load more" action should be offered:
// automatic loading has stopped and the source may still hold more items.
func (m Meta) ShowLoadMore() bool {
	return m.PastAutoLoadLimit && m.CanLoadMore
}
