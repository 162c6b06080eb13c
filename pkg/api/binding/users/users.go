package users

import (
	apiusers "github.com/opst/landmarks/pkg/api/types/users"
	kdb "github.com/opst/landmarks/pkg/db"
)

func ComposeDetail(u kdb.User) apiusers.Detail {
	return apiusers.Detail{
		Id:         u.Id,
		Email:      u.Email,
		Username:   u.Username,
		DateJoined: u.DateJoined,
	}
}
