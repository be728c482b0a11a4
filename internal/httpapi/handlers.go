// Package httpapi is the Echo-based HTTP surface driving a facade.Facade:
// multipart upload, image metadata, the reference palette, and the
// extract/dither start-then-poll routes.
package httpapi

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/diamonds-imager/internal/facade"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
	"github.com/jo-hoe/diamonds-imager/internal/processing"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

// API wires a facade.Facade into a set of Echo handlers.
type API struct {
	facade                *facade.Facade
	svgFallbackLongSidePx int
	uploadMaxKiB          int
}

// New returns an API ready to have its routes registered on an echo.Echo.
// uploadMaxKiB caps the multipart upload body size; 0 leaves it unbounded.
func New(f *facade.Facade, svgFallbackLongSidePx int, uploadMaxKiB int) *API {
	return &API{facade: f, svgFallbackLongSidePx: svgFallbackLongSidePx, uploadMaxKiB: uploadMaxKiB}
}

// Register attaches every route this service exposes to e.
func (a *API) Register(e *echo.Echo) {
	e.GET("/", a.status)

	api := e.Group("/api")
	if a.uploadMaxKiB > 0 {
		api.POST("/upload", a.upload, middleware.BodyLimit(fmt.Sprintf("%dK", a.uploadMaxKiB)))
	} else {
		api.POST("/upload", a.upload)
	}
	api.GET("/image/:id", a.getMeta)
	api.DELETE("/image/:id", a.deleteImage)

	palette := api.Group("/palette")
	palette.GET("/dmc", a.fullPalette)
	palette.POST("/extract/:id", a.startExtract)
	palette.GET("/extract/:id", a.pollExtract)
	palette.POST("/dither/:id", a.startDither)
	palette.GET("/dither/:id", a.pollDither)
}

func (a *API) status(c echo.Context) error {
	return c.HTML(http.StatusOK, "<h1>Diamonds imager is running!</h1>")
}

func (a *API) upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, facade.ErrImageEmpty)
	}

	filename := fileHeader.Filename
	if filename == "" {
		return writeError(c, facade.ErrFilenameMissing)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(src); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	decoded, err := decodeUpload(filename, buf.Bytes(), a.svgFallbackLongSidePx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to decode image: "+err.Error())
	}

	img := rgbimage.FromImage(decoded)

	id, err := a.facade.Upload(filename, img)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, uploadImageResult{ID: id, Width: img.Width, Height: img.Height})
}

// decodeUpload decodes a registered raster format, or rasterizes an .svg
// upload when its extension says so.
func decodeUpload(filename string, data []byte, svgFallbackLongSidePx int) (image.Image, error) {
	if strings.EqualFold(filepathExt(filename), ".svg") {
		return rasterizeSVG(data, svgFallbackLongSidePx)
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	return decoded, err
}

func filepathExt(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx:]
	}
	return ""
}

func (a *API) getMeta(c echo.Context) error {
	id := imagestore.ImageId(c.Param("id"))
	meta, err := a.facade.GetMeta(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toImageMetaResult(meta))
}

func (a *API) deleteImage(c echo.Context) error {
	id := imagestore.ImageId(c.Param("id"))
	if err := a.facade.Delete(id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (a *API) fullPalette(c echo.Context) error {
	return c.JSON(http.StatusOK, toPaletteResult(a.facade.FullPalette()))
}

func (a *API) startExtract(c echo.Context) error {
	id := imagestore.ImageId(c.Param("id"))

	var maxColors *int
	if raw := c.QueryParam("max_colors"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "max_colors must be a non-negative integer")
		}
		maxColors = &n
	}

	workID, err := a.facade.StartExtract(c.Request().Context(), id, maxColors)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, startWorkResult{WorkId: uint64(workID)})
}

func (a *API) pollExtract(c echo.Context) error {
	workID, err := parseWorkID(c)
	if err != nil {
		return err
	}

	bom, err := a.facade.PollExtract(workID, pollTimeout(c))
	if err != nil {
		return writePending(c, err)
	}
	return c.JSON(http.StatusOK, extractPollResult{Ready: true, Bom: toBomResult(bom)})
}

func (a *API) startDither(c echo.Context) error {
	id := imagestore.ImageId(c.Param("id"))
	workID, err := a.facade.StartDither(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, startWorkResult{WorkId: uint64(workID)})
}

func (a *API) pollDither(c echo.Context) error {
	workID, err := parseWorkID(c)
	if err != nil {
		return err
	}

	result, err := a.facade.PollDither(workID, pollTimeout(c))
	if err != nil {
		return writePending(c, err)
	}
	return c.JSON(http.StatusOK, toDitherPollResult(result))
}

func parseWorkID(c echo.Context) (processing.WorkId, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid work id")
	}
	return processing.WorkId(n), nil
}

func pollTimeout(c echo.Context) *time.Duration {
	raw := c.QueryParam("timeout_ms")
	if raw == "" {
		return nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return nil
	}
	d := time.Duration(ms) * time.Millisecond
	return &d
}

// writePending renders the still-processing body at statusProcessing for
// ErrNotAvailable/ErrBusy, or propagates any other error through the normal
// status-mapping path.
func writePending(c echo.Context, err error) error {
	httpErr := toHTTPError(err)
	if httpErr.Code != statusProcessing {
		return writeError(c, err)
	}
	slog.Debug("poll not yet ready", "error", err)
	return c.JSON(statusProcessing, extractPollResult{Ready: false})
}
