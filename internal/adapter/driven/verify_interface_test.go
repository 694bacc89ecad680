package driven

import (
	port "github.com/alorle/livetv-collector/internal/port/driven"
)

// Compile-time check that PlaylistHTTPSource implements PlaylistSource interface
var _ port.PlaylistSource = (*PlaylistHTTPSource)(nil)

// Compile-time check that StreamHTTPProber implements StreamProber interface
var _ port.StreamProber = (*StreamHTTPProber)(nil)

// Compile-time check that RunBoltDBRepository implements RunRepository interface
var _ port.RunRepository = (*RunBoltDBRepository)(nil)

// Compile-time check that RunRedisLock implements RunLock interface
var _ port.RunLock = (*RunRedisLock)(nil)
