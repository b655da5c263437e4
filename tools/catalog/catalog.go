// Package catalog assembles the default tool registry from configuration.
package catalog

import (
	"contentagent/config"
	"contentagent/internal/telemetry"
	"contentagent/tools"
	"contentagent/tools/instructions"
	"contentagent/tools/readfile"
	"contentagent/tools/transcript"
	"contentagent/tools/videosearch"
	"contentagent/tools/webfetch"
	"contentagent/tools/websearch"
)

// New builds a registry with every content tool wired to its configuration.
// Tools with missing credentials still register; they report how to
// configure themselves when called.
func New(cfg *config.Config, tel *telemetry.Telemetry) (*tools.Registry, error) {
	reg := tools.NewRegistry(tel)

	fetchTool, err := webfetch.NewTool(cfg.Tools)
	if err != nil {
		return nil, err
	}

	descriptors := []tools.Descriptor{
		transcript.Descriptor(transcript.NewClient(cfg.Tools.FetchTimeout)),
		webfetch.Descriptor(fetchTool),
		websearch.Descriptor(websearch.New(cfg.Tools.GoogleCSEKey, cfg.Tools.GoogleCSEID)),
		videosearch.Descriptor(videosearch.New(cfg.Tools.YouTubeAPIKey)),
		readfile.Descriptor(readfile.NewReader(cfg.Tools, tel)),
		instructions.Descriptor(),
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
