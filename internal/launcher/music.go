package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nmelis/beacon/internal/logger"
	"github.com/nmelis/beacon/internal/music"
)

// StarAction toggles the starred flag of a release.
type StarAction struct {
	Path string
}

func (a *StarAction) Type() string { return "music.star" }

// RescanAction kicks off a background library rescan.
type RescanAction struct{}

func (a *RescanAction) Type() string { return "music.rescan" }

// MusicPlugin exposes the music library in the launcher. The trigger
// query supports two prefixes on top of a plain title search:
//
//	starred <terms>      only starred releases
//	in:<collection> ...  only releases in the named collection
type MusicPlugin struct {
	library *music.Library
	logger  *logger.Logger
}

func NewMusicPlugin(library *music.Library, lg *logger.Logger) *MusicPlugin {
	return &MusicPlugin{library: library, logger: lg}
}

func (p *MusicPlugin) Name() string { return "music" }

func (p *MusicPlugin) Triggers() []string { return []string{"music", "m"} }

func (p *MusicPlugin) Entry() *Item {
	return &Item{
		Title:    "Music Library",
		Subtitle: "Browse and star releases",
		Action:   &SetQueryAction{Query: "music "},
		Plugin:   p,
	}
}

func (p *MusicPlugin) Populate(query string) []*Item {
	var items []*Item

	if scanning, progress := p.library.ScanStatus(); scanning {
		items = append(items, &Item{
			Title:    "Scanning library",
			Subtitle: fmt.Sprintf("%d directories (%.0f%%)", progress.Dirs, progress.Fraction()*100),
			Plugin:   p,
		})
	} else {
		items = append(items, &Item{
			Title:    "Rescan library",
			Subtitle: "Walk the music directory again",
			Action:   &RescanAction{},
			Plugin:   p,
		})
	}

	state := parseMusicQuery(query)
	releases := p.library.Filter(state)
	for _, r := range releases {
		items = append(items, p.releaseItem(r))
	}
	return items
}

func (p *MusicPlugin) releaseItem(r music.Release) *Item {
	marker := ""
	if p.library.Starred.IsStarred(r.Path) {
		marker = "★ "
	}
	subtitle := fmt.Sprintf("%d tracks  %s", r.TrackCount, r.Path)
	if names := p.library.Collections.Lookup(r.Path); len(names) > 0 {
		subtitle += "  in " + strings.Join(names, ", ")
	}
	return &Item{
		Title:    marker + r.Title,
		Subtitle: subtitle,
		Action:   &StarAction{Path: r.Path},
		Plugin:   p,
	}
}

func (p *MusicPlugin) HandleAction(data ActionData) error {
	switch action := data.(type) {
	case *StarAction:
		starred := p.library.Starred.Toggle(action.Path)
		p.logger.Debugf("music: starred=%v for %s", starred, action.Path)
		return nil
	case *RescanAction:
		go func() {
			if _, err := p.library.Rescan(context.Background()); err != nil &&
				!errors.Is(err, music.ErrScanInProgress) {
				p.logger.Errorf("music: rescan failed: %v", err)
			}
		}()
		return nil
	default:
		return ErrUnhandledAction(data)
	}
}

func (p *MusicPlugin) Cleanup() {}

// parseMusicQuery splits the starred and in:<collection> prefixes off a
// trigger query. Prefixes may be combined in either order.
func parseMusicQuery(query string) music.FilterState {
	var state music.FilterState

	rest := strings.TrimSpace(query)
	for {
		if after, ok := strings.CutPrefix(rest, "starred "); ok {
			state.Starred = true
			rest = strings.TrimSpace(after)
			continue
		}
		if rest == "starred" {
			state.Starred = true
			rest = ""
			continue
		}
		if strings.HasPrefix(rest, "in:") {
			token, after, _ := strings.Cut(rest, " ")
			state.Collection = strings.TrimPrefix(token, "in:")
			rest = strings.TrimSpace(after)
			continue
		}
		break
	}

	state.Query = rest
	return state
}
