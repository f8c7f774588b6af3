package tabular

import (
	"fmt"

	"m365-admin-service/internal/domain"
)

// Псевдонимы колонок, встречающиеся в файлах колледжа. Первый найденный
// псевдоним выигрывает; сравнение без учета регистра.
var (
	aliasCode       = []string{"CODIGO", "CODIGO_ESTUDIANTE", "Code"}
	aliasDocument   = []string{"DOCUMENTO", "Document"}
	aliasGrade      = []string{"GRADO", "Grade", "Nivel"}
	aliasCourse     = []string{"CURSO", "Course"}
	aliasFirstNames = []string{"NOMBRES", "FirstNames", "GivenName"}
	aliasLastNames  = []string{"APELLIDOS", "LastNames", "Surname"}

	aliasUPN       = []string{"UserPrincipalName", "UPN", "Email", "Mail", "Correo"}
	aliasNewCourse = []string{"Curso_2026", "Curso_Nuevo", "CursoNuevo", "NuevoCurso", "Grado_2026", "Curso", "Grado"}

	aliasTeamName    = []string{"Equipo", "displayName", "Team", "Nombre Equipo"}
	aliasTeamOwner   = []string{"Docente", "Owner", "Usuario", "Teacher", "Profesor"}
	aliasTeamGroup   = []string{"Grupo", "Section", "Sección"}
	aliasTeamSubject = []string{"Asignatura", "Subject", "Materia"}
	aliasCoordinator = []string{"CoordinadorSeccion", "Coordinador Sección", "CoordinadordeSeccion", "SectionCoordinator", "Coordinador"}
	aliasAcademic    = []string{"CuentaAcademica", "Cuenta Académica", "AcademicAccount"}
	aliasOwner3      = []string{"Owner3", "AdditionalOwner1"}
	aliasOwner4      = []string{"Owner4", "AdditionalOwner2"}

	aliasGroupMailOrID = []string{"GroupId", "TeamId", "Id", "PrimarySmtpAddress", "Email", "Correo"}
	aliasGroupAny      = []string{"GroupId", "GROUP_ID", "Id", "DisplayName", "Name", "Equipo", "Team"}
)

// Students строит записи создания учетных записей. Все шесть колонок
// обязательны; пустое обязательное поле останавливает прогон до любого
// обращения к сервису.
func (t *Table) Students() ([]domain.Student, error) {
	cols, err := t.requireColumns(map[string][]string{
		"CODIGO":    aliasCode,
		"DOCUMENTO": aliasDocument,
		"GRADO":     aliasGrade,
		"CURSO":     aliasCourse,
		"APELLIDOS": aliasLastNames,
		"NOMBRES":   aliasFirstNames,
	})
	if err != nil {
		return nil, err
	}

	students := make([]domain.Student, 0, len(t.rows))

	for i, row := range t.rows {
		s := domain.Student{
			Code:       cell(row, cols["CODIGO"]),
			Document:   cell(row, cols["DOCUMENTO"]),
			Grade:      cell(row, cols["GRADO"]),
			Course:     cell(row, cols["CURSO"]),
			LastNames:  cell(row, cols["APELLIDOS"]),
			FirstNames: cell(row, cols["NOMBRES"]),
		}

		if s.Code == "" || s.Document == "" || s.Grade == "" || s.Course == "" || s.LastNames == "" || s.FirstNames == "" {
			return nil, rowError(i)
		}

		students = append(students, s)
	}

	return students, nil
}

// UpdateRecords строит записи обновления: код, курс и имена обязательны.
func (t *Table) UpdateRecords() ([]domain.Student, error) {
	cols, err := t.requireColumns(map[string][]string{
		"CODIGO":    aliasCode,
		"CURSO":     aliasCourse,
		"NOMBRES":   aliasFirstNames,
		"APELLIDOS": aliasLastNames,
	})
	if err != nil {
		return nil, err
	}

	students := make([]domain.Student, 0, len(t.rows))

	for i, row := range t.rows {
		s := domain.Student{
			Code:       cell(row, cols["CODIGO"]),
			Course:     cell(row, cols["CURSO"]),
			FirstNames: cell(row, cols["NOMBRES"]),
			LastNames:  cell(row, cols["APELLIDOS"]),
		}

		if s.Code == "" || s.Course == "" || s.FirstNames == "" || s.LastNames == "" {
			return nil, rowError(i)
		}

		students = append(students, s)
	}

	return students, nil
}

// DeletionCodes строит список кодов к удалению.
func (t *Table) DeletionCodes() ([]string, error) {
	cols, err := t.requireColumns(map[string][]string{"CODIGO": aliasCode})
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(t.rows))

	for i, row := range t.rows {
		code := cell(row, cols["CODIGO"])
		if code == "" {
			return nil, rowError(i)
		}
		codes = append(codes, code)
	}

	return codes, nil
}

// CourseChanges строит записи перевода студентов: UPN и новый курс.
func (t *Table) CourseChanges() ([]domain.CourseChange, error) {
	cols, err := t.requireColumns(map[string][]string{
		"UserPrincipalName": aliasUPN,
		"Curso":             aliasNewCourse,
	})
	if err != nil {
		return nil, err
	}

	changes := make([]domain.CourseChange, 0, len(t.rows))

	for i, row := range t.rows {
		c := domain.CourseChange{
			UserPrincipalName: cell(row, cols["UserPrincipalName"]),
			NewCourse:         cell(row, cols["Curso"]),
		}

		if c.UserPrincipalName == "" || c.NewCourse == "" {
			return nil, rowError(i)
		}

		changes = append(changes, c)
	}

	return changes, nil
}

// CourseLinks строит записи привязки студентов к группам курсов.
func (t *Table) CourseLinks() ([]domain.CourseLink, error) {
	studentCol, ok := t.column(append(aliasCode, aliasUPN...)...)
	if !ok {
		return nil, fmt.Errorf("%w: CODIGO_ESTUDIANTE", domain.ErrMissingColumns)
	}

	courseCol, ok := t.column(aliasCourse...)
	if !ok {
		courseCol, ok = t.column(aliasGrade...)
	}
	if !ok {
		return nil, fmt.Errorf("%w: CURSO", domain.ErrMissingColumns)
	}

	links := make([]domain.CourseLink, 0, len(t.rows))

	for i, row := range t.rows {
		l := domain.CourseLink{
			StudentID: cell(row, studentCol),
			Course:    cell(row, courseCol),
		}

		if l.StudentID == "" || l.Course == "" {
			return nil, rowError(i)
		}

		links = append(links, l)
	}

	return links, nil
}

// TeamSpecs строит записи создания команд: имя и основной владелец
// обязательны, остальные колонки берутся при наличии.
func (t *Table) TeamSpecs() ([]domain.TeamSpec, error) {
	cols, err := t.requireColumns(map[string][]string{
		"Equipo":  aliasTeamName,
		"Docente": aliasTeamOwner,
	})
	if err != nil {
		return nil, err
	}

	groupCol, hasGroup := t.column(aliasTeamGroup...)
	subjectCol, hasSubject := t.column(aliasTeamSubject...)
	gradeCol, hasGrade := t.column(aliasGrade...)
	coordCol, hasCoord := t.column(aliasCoordinator...)
	academicCol, hasAcademic := t.column(aliasAcademic...)
	owner3Col, hasOwner3 := t.column(aliasOwner3...)
	owner4Col, hasOwner4 := t.column(aliasOwner4...)

	specs := make([]domain.TeamSpec, 0, len(t.rows))

	for i, row := range t.rows {
		spec := domain.TeamSpec{
			Name:  cell(row, cols["Equipo"]),
			Owner: cell(row, cols["Docente"]),
		}

		if spec.Name == "" || spec.Owner == "" {
			return nil, rowError(i)
		}

		if hasGroup {
			spec.Group = cell(row, groupCol)
		}
		if hasSubject {
			spec.Subject = cell(row, subjectCol)
		}
		if hasGrade {
			spec.Grade = cell(row, gradeCol)
		}
		if hasCoord {
			spec.Coordinator = cell(row, coordCol)
		}
		if hasAcademic {
			spec.AcademicAccount = cell(row, academicCol)
		}
		if hasOwner3 {
			spec.Owner3 = cell(row, owner3Col)
		}
		if hasOwner4 {
			spec.Owner4 = cell(row, owner4Col)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// GroupIdentifiers строит список идентификаторов команд: id, почта или
// имя. При отсутствии известной колонки берется первая колонка файла.
func (t *Table) GroupIdentifiers() ([]string, error) {
	col, ok := t.column(append(aliasGroupMailOrID, aliasGroupAny...)...)
	if !ok {
		if len(t.headers) == 0 {
			return nil, fmt.Errorf("%w: GroupId", domain.ErrMissingColumns)
		}
		col = 0
	}

	identifiers := make([]string, 0, len(t.rows))

	for _, row := range t.rows {
		if v := cell(row, col); v != "" {
			identifiers = append(identifiers, v)
		}
	}

	return identifiers, nil
}

func rowError(index int) error {
	// +2: строка заголовков плюс нумерация с единицы
	return fmt.Errorf("%w (fila %d)", domain.ErrEmptyField, index+2)
}
