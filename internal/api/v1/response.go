package v1

type CapabilitiesResponse struct {
	Features []string `json:"features"`
}

type ReachableUser struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

type BatchGetUsersResponse struct {
	ReachableUsers []ReachableUser `json:"reachableUsers"`
}

type InviteTesterResponse struct {
	Name string `json:"name"`
}
