package httpapi

import (
	"net/http"

	"vanity_gateway/internal/utils"
)

type modelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

type modelList struct {
	Object string       `json:"object"`
	Data   []modelEntry `json:"data"`
}

// handleModels lists the configured provider nicknames in the OpenAI model
// list shape. The listing never exposes endpoints or credential paths.
func (d *Dependencies) handleModels(w http.ResponseWriter, r *http.Request) {
	if err := d.authenticate(r); err != nil {
		writeGatewayError(w, err)
		return
	}

	snapshot := d.Registry.Snapshot()
	list := modelList{Object: "list", Data: make([]modelEntry, 0, snapshot.Len())}
	for _, nickname := range snapshot.Nicknames() {
		desc, _ := snapshot.Lookup(nickname)
		list.Data = append(list.Data, modelEntry{
			ID:      nickname,
			Object:  "model",
			OwnedBy: string(desc.Kind),
		})
	}

	_ = utils.RespondWithJSON(w, http.StatusOK, list)
}
