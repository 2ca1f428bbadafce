package testutil

import (
	tele "gopkg.in/telebot.v3"
)

// FakeContext is a telebot context that records replies instead of calling
// the Telegram API. Methods it does not override panic through the nil
// embedded interface.
type FakeContext struct {
	tele.Context

	User *tele.User
	Msg  *tele.Message
	Cb   *tele.Callback

	Sent      []interface{}
	Edited    []interface{}
	Replies   []interface{}
	Responses []*tele.CallbackResponse
	EditErr   error
}

// NewTextContext is a private message from userID
func NewTextContext(userID int64, text string) *FakeContext {
	user := &tele.User{ID: userID}
	return &FakeContext{
		User: user,
		Msg:  &tele.Message{Sender: user, Text: text},
	}
}

// NewCallbackContext is an inline button press from userID
func NewCallbackContext(userID int64, unique, data string) *FakeContext {
	user := &tele.User{ID: userID}
	return &FakeContext{
		User: user,
		Cb:   &tele.Callback{ID: "cb", Sender: user, Unique: unique, Data: data},
	}
}

func (c *FakeContext) Sender() *tele.User       { return c.User }
func (c *FakeContext) Message() *tele.Message   { return c.Msg }
func (c *FakeContext) Callback() *tele.Callback { return c.Cb }
func (c *FakeContext) Args() []string           { return nil }

func (c *FakeContext) Text() string {
	if c.Msg == nil {
		return ""
	}
	return c.Msg.Text
}

func (c *FakeContext) Data() string {
	if c.Cb == nil {
		return ""
	}
	return c.Cb.Data
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.Sent = append(c.Sent, what)
	c.Replies = append(c.Replies, what)
	return nil
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	c.Edited = append(c.Edited, what)
	c.Replies = append(c.Replies, what)
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Responses = append(c.Responses, nil)
		return nil
	}
	c.Responses = append(c.Responses, resp[0])
	return nil
}

// LastText returns the text of the last sent or edited message
func (c *FakeContext) LastText() string {
	for i := len(c.Replies) - 1; i >= 0; i-- {
		if s, ok := c.Replies[i].(string); ok {
			return s
		}
	}
	return ""
}
