package worker

import (
	"github.com/cforclown/school-admin/internal/service"
)

// StartAuditWorker registers the audit handlers on the event bus.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
