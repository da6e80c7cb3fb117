package postgres

// ReleaseInsertSavePoint releases the insert savepoint of uow. It fails when
// no such savepoint is open.
func ReleaseInsertSavePoint(uow *GormUnitOfWork) error {
	return uow.releaseSavePoint()
}
