package xgxcontext

// Call runs fn under a call marker recorded in the caller's frame. When fn
// returns an error, or panics, the error's Context is built with the marker
// as the catcher, remembered, and returned with the error. known tags the
// call's error as a known issue and selects the "known" settings.
//
// A panic is recovered into an error carrying the panic site's stack;
// IsPanic reports it.
//
// Call returns (nil, nil) when fn succeeds. If the Context cannot be built
// the build error is joined in front of fn's.
func (s *Session) Call(fn func() error, known ...string) (*Context, error) {
	catcher := s.NewCatcher()
	marker := CallMarker{Known: normalizeStrings(known...)}
	if err := s.record(1, KindCallMarker, catcher, []any{marker}, 0, []string{KindCallMarker}); err != nil {
		return nil, err
	}

	err := runCaught(fn)
	if err == nil {
		return nil, nil
	}
	c, berr := s.buildFromError(1, err, len(marker.Known) > 0, catcher)
	if berr != nil {
		return nil, Join(berr, err)
	}
	s.Remember(err, c)
	return c, err
}

// runCaught calls fn, converting a panic into an error.
func runCaught(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r, panicCallers())
		}
	}()
	return fn()
}
