package httpapi

import (
	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/facade"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// uploadImageResult is the JSON body of a successful upload.
type uploadImageResult struct {
	ID     imagestore.ImageId `json:"id"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
}

// imageMetaResult is the JSON body of GetMeta.
type imageMetaResult struct {
	ID            imagestore.ImageId `json:"id"`
	Filename      string             `json:"filename"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	UploadTime    string             `json:"upload_time"`
	LastTouchTime string             `json:"last_touch_time"`
}

func toImageMetaResult(m imagestore.Meta) imageMetaResult {
	return imageMetaResult{
		ID:            m.ID,
		Filename:      m.Filename,
		Width:         m.Width,
		Height:        m.Height,
		UploadTime:    m.UploadTime.Format(timeLayout),
		LastTouchTime: m.LastTouchTime.Format(timeLayout),
	}
}

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// dmcEntryResult is a single DMC entry in JSON form.
type dmcEntryResult struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

// paletteResult is the body of the full reference-palette endpoint.
type paletteResult struct {
	Palette []dmcEntryResult `json:"palette"`
}

func toPaletteResult(entries []dmc.Entry) paletteResult {
	out := make([]dmcEntryResult, len(entries))
	for i, e := range entries {
		out[i] = dmcEntryResult{Name: e.Name, Code: e.Code, Color: e.Color.Hex()}
	}
	return paletteResult{Palette: out}
}

// startWorkResult is the body returned by the start-extract/start-dither
// endpoints.
type startWorkResult struct {
	WorkId uint64 `json:"work_id"`
}

// bomEntryResult is a single (entry, count) pair in a JSON BOM.
type bomEntryResult struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

func toBomResult(bom dmc.BOM) []bomEntryResult {
	out := make([]bomEntryResult, 0, len(bom))
	for e, count := range bom {
		out = append(out, bomEntryResult{Name: e.Name, Code: e.Code, Color: e.Color.Hex(), Count: count})
	}
	return out
}

// extractPollResult is the body of a poll-extract response.
type extractPollResult struct {
	Ready bool             `json:"ready"`
	Bom   []bomEntryResult `json:"bom,omitempty"`
}

// ditherPollResult is the body of a poll-dither response. Width/Height report
// the dithered image's dimensions; the response carries no pixel data, and
// the dithered image itself is not served by this endpoint.
type ditherPollResult struct {
	Ready  bool             `json:"ready"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
	Bom    []bomEntryResult `json:"bom,omitempty"`
}

func toDitherPollResult(result facade.DitherResult) ditherPollResult {
	return ditherPollResult{
		Ready:  true,
		Width:  result.Image.Width,
		Height: result.Image.Height,
		Bom:    toBomResult(result.Bom),
	}
}
