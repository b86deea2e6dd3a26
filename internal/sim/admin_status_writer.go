package sim

// AdminStatusWriter allows sinks to receive admin server status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

// NotifyAdminStatus forwards the admin server status to every sink that
// implements AdminStatusWriter.
func NotifyAdminStatus(listening bool, sinks ...SnapshotSink) {
	for _, s := range sinks {
		if w, ok := s.(AdminStatusWriter); ok {
			w.SetAdminStatus(listening)
		}
	}
}
