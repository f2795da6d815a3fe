package domain

// Member is the public view of a room participant sent to clients.
type Member struct {
	UserID   ConnID `json:"userId"`
	UserName string `json:"userName"`
}

func NewMember(id ConnID, name string) Member {
	return Member{UserID: id, UserName: name}
}
