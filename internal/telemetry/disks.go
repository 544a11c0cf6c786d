package telemetry

import (
	"context"

	"sysdash/internal/models"
	"sysdash/internal/textutil"
)

// collectDisks builds a fresh disk list on every call; nothing is kept in the
// session. A mount whose usage cannot be read is still reported with zero space.
func collectDisks(ctx context.Context, src Source) []models.DiskInfo {
	partitions, _ := src.Partitions(ctx)
	disks := make([]models.DiskInfo, 0, len(partitions))
	for _, p := range partitions {
		info := models.DiskInfo{
			Name:       textutil.Display(p.Device),
			MountPoint: textutil.Display(p.Mountpoint),
			FileSystem: textutil.Display(p.Fstype),
		}
		if usage, err := src.Usage(ctx, p.Mountpoint); err == nil && usage != nil {
			info.TotalSpace = usage.Total
			info.AvailableSpace = usage.Free
		}
		disks = append(disks, info)
	}
	return disks
}
