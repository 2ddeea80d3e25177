package hwdecode

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// SelectDevice chooses a GPU adapter and creates a decode device on it.
//
// Software/emulated adapters are excluded. When vendorOverride is set and
// an adapter with that vendor exists, it wins immediately regardless of
// memory size. Otherwise the adapter with the largest dedicated video
// memory is chosen. When no adapter survives filtering, the driver's
// default hardware device is requested instead; that is not a failure.
//
// Thread-safety protection is enabled on the created device because the
// decode service may call into it from its own threads.
func SelectDevice(p ports.Platform, vendorOverride *uint32, log ports.Logger) (ports.DecodeDevice, error) {
	adapters, err := p.Adapters()
	if err != nil {
		return nil, errors.Wrapf(ErrDeviceUnavailable, "enumerate adapters: %v", err)
	}

	var chosen *ports.AdapterInfo
	var bestMemory uint64
	for i := range adapters {
		a := &adapters[i]
		if a.Software {
			continue
		}
		if vendorOverride != nil && a.VendorID == *vendorOverride {
			chosen = a
			break
		}
		if a.DedicatedVideoMemory > bestMemory {
			chosen = a
			bestMemory = a.DedicatedVideoMemory
		}
	}

	if chosen != nil {
		log.Debug("Selected adapter %s (vendor 0x%04x, %d MiB dedicated)",
			chosen.Description, chosen.VendorID, chosen.DedicatedVideoMemory/(1024*1024))
	} else {
		log.Debug("No suitable adapter enumerated, using driver default")
	}

	device, err := p.NewDevice(chosen)
	if err != nil {
		return nil, errors.Wrapf(ErrDeviceUnavailable, "create device: %v", err)
	}
	device.SetMultithreadProtected(true)
	return device, nil
}
