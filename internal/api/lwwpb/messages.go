package lwwpb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// mutation is the shared layout of AddRequest and RemoveRequest.
type mutation struct {
	Element   string
	Timestamp int64
	RequestId string
}

func (m *mutation) marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Element)
	b = appendInt64(b, 2, m.Timestamp)
	b = appendString(b, 3, m.RequestId)
	return b
}

func (m *mutation) unmarshal(b []byte) error {
	*m = mutation{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(typ, b)
			m.Element = v
			return n, err
		case 2:
			v, n, err := consumeVarint(typ, b)
			m.Timestamp = int64(v)
			return n, err
		case 3:
			v, n, err := consumeString(typ, b)
			m.RequestId = v
			return n, err
		}
		return -1, nil
	})
}

// AddRequest asks the replica to add Element. A zero Timestamp means "now".
type AddRequest struct {
	Element   string
	Timestamp int64
	RequestId string
}

func (m *AddRequest) MarshalWire() ([]byte, error) {
	if err := checkUTF8(m.Element, m.RequestId); err != nil {
		return nil, err
	}
	mu := mutation(*m)
	return mu.marshal(), nil
}

func (m *AddRequest) UnmarshalWire(b []byte) error {
	var mu mutation
	if err := mu.unmarshal(b); err != nil {
		return err
	}
	*m = AddRequest(mu)
	return nil
}

// RemoveRequest asks the replica to remove Element. A zero Timestamp means "now".
type RemoveRequest struct {
	Element   string
	Timestamp int64
	RequestId string
}

func (m *RemoveRequest) MarshalWire() ([]byte, error) {
	if err := checkUTF8(m.Element, m.RequestId); err != nil {
		return nil, err
	}
	mu := mutation(*m)
	return mu.marshal(), nil
}

func (m *RemoveRequest) UnmarshalWire(b []byte) error {
	var mu mutation
	if err := mu.unmarshal(b); err != nil {
		return err
	}
	*m = RemoveRequest(mu)
	return nil
}

// MutationResponse carries the timestamp recorded for an add or remove.
type MutationResponse struct {
	Timestamp int64
}

func (m *MutationResponse) MarshalWire() ([]byte, error) {
	return appendInt64(nil, 1, m.Timestamp), nil
}

func (m *MutationResponse) UnmarshalWire(b []byte) error {
	*m = MutationResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(typ, b)
			m.Timestamp = int64(v)
			return n, err
		}
		return -1, nil
	})
}

type ExistsRequest struct {
	Element string
}

func (m *ExistsRequest) MarshalWire() ([]byte, error) {
	if err := checkUTF8(m.Element); err != nil {
		return nil, err
	}
	return appendString(nil, 1, m.Element), nil
}

func (m *ExistsRequest) UnmarshalWire(b []byte) error {
	*m = ExistsRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeString(typ, b)
			m.Element = v
			return n, err
		}
		return -1, nil
	})
}

type ExistsResponse struct {
	Exists bool
}

func (m *ExistsResponse) MarshalWire() ([]byte, error) {
	return appendBool(nil, 1, m.Exists), nil
}

func (m *ExistsResponse) UnmarshalWire(b []byte) error {
	*m = ExistsResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(typ, b)
			m.Exists = protowire.DecodeBool(v)
			return n, err
		}
		return -1, nil
	})
}

type GetRequest struct{}

func (m *GetRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *GetRequest) UnmarshalWire(b []byte) error {
	return decodeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return -1, nil })
}

// GetResponse lists the current members in unspecified order.
type GetResponse struct {
	Elements []string
}

func (m *GetResponse) MarshalWire() ([]byte, error) {
	var b []byte
	for _, e := range m.Elements {
		b = appendStringAlways(b, 1, e)
	}
	return b, nil
}

func (m *GetResponse) UnmarshalWire(b []byte) error {
	*m = GetResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeString(typ, b)
			if err == nil {
				m.Elements = append(m.Elements, v)
			}
			return n, err
		}
		return -1, nil
	})
}

type StateRequest struct{}

func (m *StateRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *StateRequest) UnmarshalWire(b []byte) error {
	return decodeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return -1, nil })
}

// Entry is one log record.
type Entry struct {
	Element   string
	Timestamp int64
}

func (m *Entry) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Element)
	b = appendInt64(b, 2, m.Timestamp)
	return b, nil
}

func (m *Entry) UnmarshalWire(b []byte) error {
	*m = Entry{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(typ, b)
			m.Element = v
			return n, err
		case 2:
			v, n, err := consumeVarint(typ, b)
			m.Timestamp = int64(v)
			return n, err
		}
		return -1, nil
	})
}

// StateResponse is a full dump of a replica's logs.
type StateResponse struct {
	NodeId   string
	Baseline int64
	Adds     []*Entry
	Removes  []*Entry
}

func (m *StateResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.NodeId)
	b = appendInt64(b, 2, m.Baseline)
	for _, e := range m.Adds {
		inner, _ := e.MarshalWire()
		b = appendMessage(b, 3, inner)
	}
	for _, e := range m.Removes {
		inner, _ := e.MarshalWire()
		b = appendMessage(b, 4, inner)
	}
	return b, nil
}

func (m *StateResponse) UnmarshalWire(b []byte) error {
	*m = StateResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(typ, b)
			m.NodeId = v
			return n, err
		case 2:
			v, n, err := consumeVarint(typ, b)
			m.Baseline = int64(v)
			return n, err
		case 3, 4:
			raw, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			e := &Entry{}
			if err := e.UnmarshalWire(raw); err != nil {
				return 0, err
			}
			if num == 3 {
				m.Adds = append(m.Adds, e)
			} else {
				m.Removes = append(m.Removes, e)
			}
			return n, nil
		}
		return -1, nil
	})
}
