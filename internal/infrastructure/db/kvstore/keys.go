package kvstore

// Entity key prefixes. An entity lives at <prefix><id>.
const (
	userPrefix          = "user:"
	projectPrefix       = "project:"
	collaborationPrefix = "collaboration:"
	taskPrefix          = "task:"
	requestPrefix       = "collab_request:"
	matchScoresPrefix   = "match_scores:"
)

func userKey(id string) string          { return userPrefix + id }
func projectKey(id string) string       { return projectPrefix + id }
func collaborationKey(id string) string { return collaborationPrefix + id }
func taskKey(id string) string          { return taskPrefix + id }
func requestKey(id string) string       { return requestPrefix + id }
func matchScoresKey(id string) string   { return matchScoresPrefix + id }
