package mosaic

import "context"

// SupportedMajorVersion is the only Mosaic major version this server
// will handshake on.
const SupportedMajorVersion = 0

// HandleMosaicMessage dispatches a decoded frame to the right handler
// and returns zero or more reply frames to send back to the peer. A nil
// slice with a nil error means "no reply"; the connection stays open
// unless the handler also staged client.ClosingResult (a duplicate HELLO
// leaves it unset, an unparseable SUBMISSION sets it).
func HandleMosaicMessage(ctx context.Context, m *Message, client *ClientData, store Store, logger Logger) ([]*Message, error) {
	switch m.Type {
	case MessageTypeHello:
		return handleHello(m, client)
	case MessageTypeSubmission:
		return handleSubmission(ctx, m, client, store, logger)
	case MessageTypeGet:
		return handleGet(ctx, m, client, store)

	case MessageTypeQuery, MessageTypeSubscribe, MessageTypeUnsubscribe:
		// Out of scope: acknowledged as unrecognized rather than
		// silently dropped, so a client can tell the difference
		// between "ignored" and "this server never saw it".
		return []*Message{NewUnrecognized()}, nil
	default:
		return []*Message{NewUnrecognized()}, nil
	}
}

func handleHello(m *Message, client *ClientData) ([]*Message, error) {
	if client.Handshaked() {
		// Repeated HELLO on an already-handshaked connection is
		// ignored rather than treated as a protocol error.
		return nil, nil
	}

	version := m.MajorVersion()
	if version != SupportedMajorVersion {
		client.RequestClose(ResultCodeInvalid)
		return []*Message{NewHelloAck(ResultCodeInvalid, 0, nil)}, nil
	}

	requested, err := DecodeHelloApplications(m.Body())
	if err != nil {
		client.RequestClose(ResultCodeInvalid)
		return []*Message{NewHelloAck(ResultCodeInvalid, 0, nil)}, nil
	}

	var accepted []uint32
	for _, app := range requested {
		if app == 0 {
			accepted = append(accepted, app)
		}
	}

	v := uint16(version)
	client.MosaicVersion = &v
	client.Applications = accepted
	return []*Message{NewHelloAck(ResultCodeSuccess, 0, accepted)}, nil
}

func handleSubmission(ctx context.Context, m *Message, client *ClientData, store Store, logger Logger) ([]*Message, error) {
	rec, err := ValidateSubmission(m, client)
	if err != nil {
		var valErr *SubmissionValidationError
		if e, ok := err.(*SubmissionValidationError); ok {
			valErr = e
		}
		if logger != nil {
			logger.LogClientError(err, client.RemoteAddress, client.Peer)
		}
		if id, ok := ExtractRecordID(m.AsBytes()); ok {
			code := ResultCodeInvalid
			if valErr != nil {
				code = valErr.ResultCode()
			}
			return []*Message{NewSubmissionResult(id, code)}, nil
		}
		client.RequestClose(ResultCodeInvalid)
		return nil, nil
	}

	result, err := store.PutRecord(ctx, rec)
	if err != nil {
		if logger != nil {
			logger.LogClientError(NewError(KindGeneral, err), client.RemoteAddress, client.Peer)
		}
		return []*Message{NewSubmissionResult(rec.ID(), ResultCodeGeneralError)}, nil
	}

	code := ResultCodeAccepted
	if result == PutResultDuplicate {
		code = ResultCodeDuplicate
	}
	return []*Message{NewSubmissionResult(rec.ID(), code)}, nil
}

func handleGet(ctx context.Context, m *Message, client *ClientData, store Store) ([]*Message, error) {
	queryID, refs, decodeErr := DecodeGet(m)
	if !client.Handshaked() {
		return []*Message{NewQueryClosed(queryID, ResultCodeInvalid)}, nil
	}
	if decodeErr != nil {
		return []*Message{NewQueryClosed(queryID, ResultCodeInvalid)}, nil
	}

	var replies []*Message
	found := false
	for _, ref := range refs {
		rec, err := store.GetRecord(ctx, ref)
		if err != nil {
			return nil, NewError(KindGeneral, err)
		}
		if rec != nil {
			found = true
			replies = append(replies, NewRecordMessage(queryID, rec.Bytes()))
		}
	}

	code := ResultCodeNotFound
	if found {
		code = ResultCodeSuccess
	}
	replies = append(replies, NewQueryClosed(queryID, code))
	return replies, nil
}
