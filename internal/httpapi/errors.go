package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/diamonds-imager/internal/facade"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
	"github.com/jo-hoe/diamonds-imager/internal/processing"
)

// statusProcessing is the non-standard "still processing" status this
// service reports for a not-yet-ready poll result; Echo's HTTPError
// accepts any integer status.
const statusProcessing = 102

// toHTTPError translates a typed error from any core layer into an
// echo.HTTPError.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, facade.ErrFilenameMissing),
		errors.Is(err, facade.ErrImageEmpty),
		errors.Is(err, facade.ErrImageTooWide),
		errors.Is(err, facade.ErrImageTooHigh),
		errors.Is(err, imagestore.ErrFilenameStemMissing),
		errors.Is(err, imagestore.ErrFilenameExtensionMissing):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, imagestore.ErrImageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, processing.ErrBusy):
		return echo.NewHTTPError(statusProcessing, err.Error())

	case errors.Is(err, processing.ErrNotAvailable):
		return echo.NewHTTPError(statusProcessing, err.Error())

	case errors.Is(err, processing.ErrServiceFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// writeError writes err as the standard {"error": "..."} JSON body at the
// status toHTTPError derives for it.
func writeError(c echo.Context, err error) error {
	httpErr := toHTTPError(err)
	return c.JSON(httpErr.Code, errorBody{Error: httpErr.Message.(string)})
}
