package aseprite

import "fmt"

// TagDirection is the playback order of a tag's frame range.
type TagDirection uint8

const (
	DirForward         TagDirection = 0
	DirReverse         TagDirection = 1
	DirPingPong        TagDirection = 2
	DirPingPongReverse TagDirection = 3
)

func (d TagDirection) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirReverse:
		return "reverse"
	case DirPingPong:
		return "ping-pong"
	case DirPingPongReverse:
		return "ping-pong reverse"
	}
	return fmt.Sprintf("direction %d", uint8(d))
}

// Tag names a half-open frame range [From, To). The bounds are stored
// exactly as they appear in the file, so [1, 1) and [0, 0) are both
// empty and still distinct.
type Tag struct {
	Name      string
	From, To  int
	Direction TagDirection
	Repeat    int
	UserData  UserData
}

// TagByName returns the first tag with the given name.
func (s *Sprite) TagByName(name string) (*Tag, error) {
	for _, t := range s.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", name, ErrTagMissing)
}
