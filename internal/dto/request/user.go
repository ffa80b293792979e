package request

type SetRegularStudentRequest struct {
	Regular bool `json:"regular"`
}
