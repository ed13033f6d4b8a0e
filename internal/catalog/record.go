package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/goccy/go-json"
	"github.com/mmcdole/albumshelf/internal/domain"
)

// RawRecord is one catalog entry as it arrives from the source, before
// validation. Pointer fields distinguish "absent" from zero.
type RawRecord struct {
	ID             string  `json:"id" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	Description    *string `json:"description" validate:"required"`
	ImageURL       string  `json:"image_url" validate:"required,url"`
	TotalEpisodes  *int    `json:"total_episodes" validate:"required,gt=0"`
	CurrentEpisode *int    `json:"current_episode" validate:"required,gte=0"`
	ChargePattern  *int    `json:"charge_pattern" validate:"required,gte=0"`
	Tags           string  `json:"tags"`
}

// Album converts a validated record into an immutable album.
func (r *RawRecord) Album(kind domain.MediaKind) *domain.Album {
	a := &domain.Album{
		ID:           r.ID,
		Title:        r.Title,
		ImageURL:     r.ImageURL,
		Tags:         ParseTags(r.Tags),
		EpisodeCount: domain.UnknownEpisodes,
		Kind:         kind,
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.TotalEpisodes != nil {
		a.EpisodeCount = *r.TotalEpisodes
	}
	if r.CurrentEpisode != nil {
		a.CurrentEpisode = *r.CurrentEpisode
	}
	a.IsFree = r.ChargePattern != nil && *r.ChargePattern == 0
	return a
}

// nodeRecord is the envelope shape exported by the original content service.
type nodeRecord struct {
	ID   string    `json:"node_object_id"`
	Data *nodeData `json:"node_object_data"`
}

type nodeData struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	PictureHori   string  `json:"picture_hori"`
	ItemTotal     *int    `json:"item_total_number"`
	ItemNow       *int    `json:"item_now_number"`
	CategoryTag   string  `json:"category_tag"`
	ChargePattern *int    `json:"charge_pattern"`
}

func (n *nodeRecord) raw() *RawRecord {
	r := &RawRecord{ID: n.ID}
	if n.Data == nil {
		return r
	}
	if n.Data.Title != nil {
		r.Title = *n.Data.Title
	}
	r.Description = n.Data.Description
	r.ImageURL = n.Data.PictureHori
	r.TotalEpisodes = n.Data.ItemTotal
	r.CurrentEpisode = n.Data.ItemNow
	r.ChargePattern = n.Data.ChargePattern
	r.Tags = n.Data.CategoryTag
	return r
}

// decodeJSON parses a JSON array whose elements are flat records or node
// envelopes. Elements that cannot be decoded come back as nil so the caller
// can log and skip them without losing their neighbours.
func decodeJSON(data []byte) ([]*RawRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decode catalog array: %w", err)
	}

	records := make([]*RawRecord, len(elems))
	for i, elem := range elems {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(elem, &probe); err != nil {
			continue
		}
		if _, ok := probe["node_object_data"]; ok {
			var n nodeRecord
			if err := json.Unmarshal(elem, &n); err != nil {
				continue
			}
			records[i] = n.raw()
			continue
		}
		var r RawRecord
		if err := json.Unmarshal(elem, &r); err != nil {
			continue
		}
		records[i] = &r
	}
	return records, nil
}

// csvRecord mirrors RawRecord with every column as text so empty cells stay
// distinguishable from zero.
type csvRecord struct {
	ID             string `csv:"id"`
	Title          string `csv:"title"`
	Description    string `csv:"description"`
	ImageURL       string `csv:"image_url"`
	TotalEpisodes  string `csv:"total_episodes"`
	CurrentEpisode string `csv:"current_episode"`
	ChargePattern  string `csv:"charge_pattern"`
	Tags           string `csv:"tags"`
}

// decodeCSV parses a headed CSV catalog. Rows with unparsable numbers come
// back as nil.
func decodeCSV(data []byte) ([]*RawRecord, error) {
	var rows []*csvRecord
	if err := gocsv.Unmarshal(bytes.NewReader(data), &rows); err != nil {
		return nil, fmt.Errorf("decode catalog csv: %w", err)
	}

	records := make([]*RawRecord, len(rows))
	for i, row := range rows {
		r := &RawRecord{
			ID:       strings.TrimSpace(row.ID),
			Title:    row.Title,
			ImageURL: strings.TrimSpace(row.ImageURL),
			Tags:     row.Tags,
		}
		desc := row.Description
		r.Description = &desc

		var err error
		if r.TotalEpisodes, err = optionalInt(row.TotalEpisodes); err != nil {
			continue
		}
		if r.CurrentEpisode, err = optionalInt(row.CurrentEpisode); err != nil {
			continue
		}
		if r.ChargePattern, err = optionalInt(row.ChargePattern); err != nil {
			continue
		}
		records[i] = r
	}
	return records, nil
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
