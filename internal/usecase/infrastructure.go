package usecase

import "context"

// ArchiveInfra сохраняет исходные CSV-файлы импорта в объектное хранилище.
type ArchiveInfra interface {
	ArchiveCSV(ctx context.Context, req *ArchiveCSVReq) (string, error)
}

// EventProducer публикует события об успешных импортах для внешних потребителей.
type EventProducer interface {
	PublishImportEvent(ctx context.Context, event *ImportEvent) error
}
