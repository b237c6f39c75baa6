package main

import (
	"net/http"
)

// getMenuHandler godoc
//
//	@Summary		Get menu
//	@Description	Get the menu the assistant takes orders from
//	@Tags			menu
//	@Produce		json
//	@Success		200	{object}	domain.Menu
//	@Failure		401	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu [get]
func (app *application) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonRespone(w, http.StatusOK, app.menu); err != nil {
		app.internalServerError(w, r, err)
	}
}
