package user

import "github.com/gin-gonic/gin"

const contextKey = "kanbaniq.user"

func SetContext(c *gin.Context, u *User) {
	c.Set(contextKey, u)
}

func FromContext(c *gin.Context) (*User, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok && u != nil
}
