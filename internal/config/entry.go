package config

import "time"

// EntrySettings tunes quick-entry feedback and persistence.
type EntrySettings struct {
	InvalidFlashMS   int    `json:"invalid_flash_ms"   toml:"invalid_flash_ms"`
	ResultFlashMS    int    `json:"result_flash_ms"    toml:"result_flash_ms"`
	SubmitTimeoutSec int    `json:"submit_timeout_sec" toml:"submit_timeout_sec"`
	Source           string `json:"source"             toml:"source"`
}

const (
	EntryInvalidFlashDefault = 150
	EntryInvalidFlashMin     = 50
	EntryInvalidFlashMax     = 2000
	EntryResultFlashDefault  = 600
	EntryResultFlashMin      = 100
	EntryResultFlashMax      = 5000
	EntrySubmitTimeoutDef    = 10
	EntrySubmitTimeoutMin    = 1
	EntrySubmitTimeoutMax    = 120
	EntrySourceDefault       = "quick-entry"
)

func DefaultEntrySettings() EntrySettings {
	return EntrySettings{
		InvalidFlashMS:   EntryInvalidFlashDefault,
		ResultFlashMS:    EntryResultFlashDefault,
		SubmitTimeoutSec: EntrySubmitTimeoutDef,
		Source:           EntrySourceDefault,
	}
}

func NormaliseEntrySettings(in EntrySettings) EntrySettings {
	out := DefaultEntrySettings()
	out.InvalidFlashMS = clampInt(in.InvalidFlashMS, EntryInvalidFlashMin, EntryInvalidFlashMax, EntryInvalidFlashDefault)
	out.ResultFlashMS = clampInt(in.ResultFlashMS, EntryResultFlashMin, EntryResultFlashMax, EntryResultFlashDefault)
	out.SubmitTimeoutSec = clampInt(in.SubmitTimeoutSec, EntrySubmitTimeoutMin, EntrySubmitTimeoutMax, EntrySubmitTimeoutDef)
	if in.Source != "" {
		out.Source = in.Source
	}
	return out
}

func (e EntrySettings) InvalidFlash() time.Duration {
	return time.Duration(e.InvalidFlashMS) * time.Millisecond
}

func (e EntrySettings) ResultFlash() time.Duration {
	return time.Duration(e.ResultFlashMS) * time.Millisecond
}

func (e EntrySettings) SubmitTimeout() time.Duration {
	return time.Duration(e.SubmitTimeoutSec) * time.Second
}
