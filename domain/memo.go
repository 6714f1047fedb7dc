package domain

import "encoding/json"

// Memorable is anything the state repository can persist as a JSON memo.
type Memorable interface {
	ToJson() string
	FromJson(jstr string) error
}

type Memo struct {
	Key  string `json:"key"`
	Memo string `json:"memo"`
}

// FeedCursorMemo remembers the newest price feed row already posted to the
// oracle, so a restart does not replay stale observations.
type FeedCursorMemo struct {
	LatestFeedId int64 `json:"latest_feed_id"`
}

func (m *FeedCursorMemo) ToJson() string {
	jstr, err := json.Marshal(m)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (m *FeedCursorMemo) FromJson(jstr string) error {
	return json.Unmarshal([]byte(jstr), m)
}
