package queue

const TypeAssistantSync = "assistant:sync"

// AssistantSyncPayload asks the worker to push a tenant's current prompt and
// knowledge into its hosted assistant.
type AssistantSyncPayload struct {
	SiteID string `json:"site_id"`
}
