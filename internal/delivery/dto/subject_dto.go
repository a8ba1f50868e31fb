package dto

type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type UpdateSubjectRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubjectListResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
	Total    int               `json:"total"`
}
