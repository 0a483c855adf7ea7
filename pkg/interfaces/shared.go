package _interface

// ServiceContainer는 모든 서비스 인스턴스를 보관합니다
type ServiceContainer struct {
	ScanService     ScanService
	Storage         ImageStorage
	AuditRepository ScanAuditRepository
}
